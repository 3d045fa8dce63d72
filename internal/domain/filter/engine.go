package filter

import "github.com/stellarwallet/relay/internal/domain/operation"

// Matches reports whether f suppresses op delivered to the wallet walletKey.
func (f Filter) Matches(op operation.Operation, walletKey string) bool {
	if f.PublicKey != "" && f.PublicKey != walletKey {
		return false
	}
	if f.AssetCode != "" && f.AssetCode != op.Asset {
		return false
	}
	if f.OperationType != op.Type {
		return false
	}
	return f.MinAmount.GreaterThan(op.PrimaryAmount())
}

// ShouldSuppress returns true on the first filter that matches.
func ShouldSuppress(op operation.Operation, filters []Filter, walletKey string) bool {
	for _, f := range filters {
		if f.Matches(op, walletKey) {
			return true
		}
	}
	return false
}

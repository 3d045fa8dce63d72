// Package normalizer maps notifier webhook payloads onto operation.Operation.
package normalizer

import (
	"errors"
	"time"

	"github.com/stellarwallet/relay/internal/domain/operation"
)

var (
	ErrMalformed    = errors.New("normalizer: malformed payload")
	ErrMissingID    = errors.New("normalizer: missing operation id")
	ErrUnattributed = errors.New("normalizer: no account to attribute operation to")
)

// Result is either a normalized operation or the reason it could not be built.
type Result struct {
	Op  operation.Operation
	Err error
}

func (r Result) OK() bool { return r.Err == nil }

func fail(err error) Result { return Result{Err: err} }

// Normalize decodes and maps a raw webhook body.
func Normalize(raw []byte) Result {
	p, err := Decode(raw)
	if err != nil {
		return fail(err)
	}
	return FromPayload(p)
}

// FromMap maps an already decoded JSON object.
func FromMap(m map[string]any) Result {
	return FromPayload(NewPayload(m))
}

func FromPayload(p Payload) Result {
	id := p.Str("id")
	if id == "" {
		return fail(ErrMissingID)
	}
	raw := p.Str("type")
	op := operation.Operation{
		ID:              id,
		RawType:         raw,
		Type:            operation.ParseType(raw),
		TransactionHash: p.First("transaction_hash", "tx_hash"),
		Memo:            p.Str("memo"),
		CreatedAt:       parseTime(p.Str("created_at")),
	}

	switch op.Type {
	case operation.TypePayment:
		mapPayment(p, &op)
	case operation.TypeCreateAccount:
		mapCreateAccount(p, &op)
	case operation.TypePathPaymentStrictSend:
		mapStrictSend(p, &op)
	case operation.TypePathPaymentStrictReceive:
		mapStrictReceive(p, &op)
	case operation.TypeTrade:
		mapTrade(p, &op)
	case operation.TypeManageSellOffer, operation.TypeManageBuyOffer:
		mapOffer(p, &op)
	case operation.TypeManageData:
		mapData(p, &op)
	case operation.TypeAccountDebited, operation.TypeAccountCredited:
		mapAccountEffect(p, &op)
	default:
		op.ForAccount = p.First("to", "account")
		op.FromAccount = p.First("from", "source_account")
		op.Amount = "0"
		op.Asset = operation.AssetUnknown
	}

	if op.ForAccount == "" {
		return fail(ErrUnattributed)
	}
	return Result{Op: op}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

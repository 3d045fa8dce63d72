package filter

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stellarwallet/relay/internal/domain/operation"
)

// Filter is a per-user suppression rule. Empty PublicKey or AssetCode match anything.
type Filter struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	PublicKey     string          `json:"public_key,omitempty"`
	AssetCode     string          `json:"asset_code,omitempty"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	OperationType operation.Type  `json:"operation_type"`
}

type Repo interface {
	ListByUser(ctx context.Context, userID int64) ([]Filter, error)
}

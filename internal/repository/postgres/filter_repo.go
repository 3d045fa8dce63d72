package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stellarwallet/relay/internal/domain/filter"
	"github.com/stellarwallet/relay/internal/domain/operation"
)

var _ filter.Repo = (*FilterRepo)(nil)

type FilterRepo struct {
	db *DB
}

func NewFilterRepo(db *DB) *FilterRepo { return &FilterRepo{db: db} }

const qFiltersByUser = `
SELECT id, user_id, public_key, asset_code, min_amount::text, operation_type
FROM notification_filters
WHERE user_id = $1
ORDER BY id;`

func (r *FilterRepo) ListByUser(ctx context.Context, userID int64) ([]filter.Filter, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qFiltersByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("filters by user: %w", err)
	}
	defer rows.Close()

	var out []filter.Filter
	for rows.Next() {
		var (
			f          filter.Filter
			key, asset sql.NullString
			minAmount  sql.NullString
			opType     string
		)
		if err := rows.Scan(&f.ID, &f.UserID, &key, &asset, &minAmount, &opType); err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		f.PublicKey = str(key)
		f.AssetCode = str(asset)
		f.OperationType = operation.Type(opType)
		if minAmount.Valid {
			d, err := decimal.NewFromString(minAmount.String)
			if err != nil {
				return nil, fmt.Errorf("filter %d min_amount: %w", f.ID, err)
			}
			f.MinAmount = d
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

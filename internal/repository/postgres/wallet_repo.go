package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stellarwallet/relay/internal/domain/wallet"
)

var _ wallet.Repo = (*WalletRepo)(nil)

// WalletRepo reads the bot's wallet table. Rows flagged need_delete and
// system rows (user_id <= 0) are invisible to the relay.
type WalletRepo struct {
	db *DB
}

func NewWalletRepo(db *DB) *WalletRepo { return &WalletRepo{db: db} }

const (
	qWalletsByKeys = `
SELECT id, user_id, public_key, default_wallet
FROM wallets
WHERE public_key = ANY($1)
  AND need_delete = FALSE
  AND user_id > 0
ORDER BY id;`

	qWalletDefault = `
SELECT id, user_id, public_key, default_wallet
FROM wallets
WHERE user_id = $1
  AND default_wallet = TRUE
  AND need_delete = FALSE
ORDER BY id
LIMIT 1;`

	qWalletAddresses = `
SELECT DISTINCT public_key
FROM wallets
WHERE need_delete = FALSE
  AND user_id > 0;`
)

func (r *WalletRepo) ListByPublicKeys(ctx context.Context, keys []string) ([]*wallet.Wallet, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qWalletsByKeys, keys)
	if err != nil {
		return nil, fmt.Errorf("wallets by keys: %w", err)
	}
	defer rows.Close()

	var out []*wallet.Wallet
	for rows.Next() {
		var w wallet.Wallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.PublicKey, &w.IsDefault); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

func (r *WalletRepo) GetDefault(ctx context.Context, userID int64) (*wallet.Wallet, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var w wallet.Wallet
	err := r.db.Pool.QueryRow(ctx, qWalletDefault, userID).Scan(&w.ID, &w.UserID, &w.PublicKey, &w.IsDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("default wallet: %w", err)
	}
	return &w, nil
}

func (r *WalletRepo) ListActiveAddresses(ctx context.Context) ([]string, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qWalletAddresses)
	if err != nil {
		return nil, fmt.Errorf("wallet addresses: %w", err)
	}
	addrs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect addresses: %w", err)
	}
	return addrs, nil
}

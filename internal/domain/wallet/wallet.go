package wallet

import "context"

type Wallet struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	PublicKey string `json:"public_key"`
	IsDefault bool   `json:"is_default"`
}

// Repo reads the bot's wallet table. Only non-deleted wallets of real users
// (user_id > 0) are ever returned.
type Repo interface {
	ListByPublicKeys(ctx context.Context, keys []string) ([]*Wallet, error)
	GetDefault(ctx context.Context, userID int64) (*Wallet, error)
	ListActiveAddresses(ctx context.Context) ([]string, error)
}

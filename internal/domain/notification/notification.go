package notification

import "time"

// Delivery describes one confirmed user notification.
type Delivery struct {
	OperationID string    `json:"operation_id"`
	UserID      int64     `json:"user_id"`
	WalletID    int64     `json:"wallet_id"`
	PublicKey   string    `json:"public_key"`
	Type        string    `json:"type"`
	Perspective string    `json:"perspective"`
	Asset       string    `json:"asset"`
	Amount      string    `json:"amount"`
	RecordID    string    `json:"record_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

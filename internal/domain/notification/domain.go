package notification

import (
	"context"

	"github.com/stellarwallet/relay/internal/domain/operation"
)

// Messenger sends plain text to a bot user. A nil error means the message was accepted.
type Messenger interface {
	SendText(ctx context.Context, userID int64, text string) error
}

type Renderer interface {
	Render(ctx context.Context, op operation.Operation, p operation.Perspective, userID int64) (string, error)
}

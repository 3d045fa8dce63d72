package notification

import "context"

type EventPublisher interface {
	PublishDelivered(ctx context.Context, d Delivery) error
}

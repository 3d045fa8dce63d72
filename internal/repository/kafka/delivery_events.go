package kafka

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stellarwallet/relay/internal/domain/notification"
	"github.com/stellarwallet/relay/internal/obs/retry"
)

const (
	DefaultEventBuffer = 1024
	drainTimeout       = 5 * time.Second
)

var ErrEventQueueFull = errors.New("kafka: delivery event queue full")

type jsonPublisher interface {
	PublishJSON(ctx context.Context, key []byte, v any) error
}

type queuedDelivery struct {
	d  notification.Delivery
	sc trace.SpanContext
}

// DeliveryEvents publishes confirmed deliveries keyed by user id. Callers
// only enqueue; Run does the broker writes.
type DeliveryEvents struct {
	p      jsonPublisher
	policy retry.Policy
	queue  chan queuedDelivery
	log    *zap.Logger
}

var _ notification.EventPublisher = (*DeliveryEvents)(nil)

func NewDeliveryEvents(p *Producer, policy retry.Policy, buffer int, log *zap.Logger) *DeliveryEvents {
	return newDeliveryEvents(p, policy, buffer, log)
}

func newDeliveryEvents(p jsonPublisher, policy retry.Policy, buffer int, log *zap.Logger) *DeliveryEvents {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DeliveryEvents{
		p:      p,
		policy: policy,
		queue:  make(chan queuedDelivery, buffer),
		log:    log.With(zap.String("component", "kafka.delivery_events")),
	}
}

// PublishDelivered never waits on the broker: a full queue drops the event.
func (e *DeliveryEvents) PublishDelivered(ctx context.Context, d notification.Delivery) error {
	select {
	case e.queue <- queuedDelivery{d: d, sc: trace.SpanContextFromContext(ctx)}:
		return nil
	default:
		return ErrEventQueueFull
	}
}

// Run writes queued events until ctx is done, then flushes what is left
// within a short deadline.
func (e *DeliveryEvents) Run(ctx context.Context) error {
	for {
		select {
		case q := <-e.queue:
			e.publish(ctx, q)
		case <-ctx.Done():
			e.drain()
			return ctx.Err()
		}
	}
}

func (e *DeliveryEvents) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case q := <-e.queue:
			e.publish(ctx, q)
		default:
			return
		}
		if ctx.Err() != nil {
			e.log.Warn("delivery events dropped on shutdown", zap.Int("pending", len(e.queue)))
			return
		}
	}
}

func (e *DeliveryEvents) publish(ctx context.Context, q queuedDelivery) {
	if q.sc.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, q.sc)
	}
	err := retry.Do(ctx, e.policy, func(ctx context.Context) error {
		return e.p.PublishJSON(ctx, KeyFromInt64(q.d.UserID), q.d)
	})
	if err != nil {
		e.log.Warn("delivery event not published",
			zap.String("operation_id", q.d.OperationID),
			zap.Int64("user_id", q.d.UserID),
			zap.Error(err),
		)
	}
}

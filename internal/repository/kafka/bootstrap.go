package kafka

import (
	"context"

	"go.uber.org/zap"
)

// BootstrapProducer prepares the delivery-events topic and returns a producer
// for it. A topic that cannot be confirmed is logged and the producer is still
// returned; the broker may auto-create it on first write.
func BootstrapProducer(ctx context.Context, cfg Config, logger *zap.Logger) *Producer {
	spec := TopicSpec{Name: cfg.Topic, Retention: cfg.Retention}
	if err := EnsureTopic(ctx, cfg.Brokers, spec, logger); err != nil {
		logger.Warn("delivery topic not confirmed", zap.String("topic", cfg.Topic), zap.Error(err))
	}
	return NewProducer(cfg.Brokers, cfg.Topic).WithLogger(logger)
}

package history

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunCleanup sweeps expired records every interval until ctx is done.
func (c *Cache) RunCleanup(ctx context.Context, every time.Duration, log *zap.Logger) error {
	if every <= 0 {
		every = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "history.cleanup"))

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := c.Cleanup(); n > 0 {
				log.Debug("expired notifications removed", zap.Int("removed", n), zap.Int("users", c.Users()))
			}
		}
	}
}

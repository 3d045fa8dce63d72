package subscription

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Runner reconciles once at start and then on every tick.
type Runner struct {
	Log      *zap.Logger
	Manager  *Manager
	Interval time.Duration
}

func NewRunner(log *zap.Logger, m *Manager, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &Runner{Log: log.With(zap.String("component", "subscription.runner")), Manager: m, Interval: interval}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	if _, err := r.Manager.Reconcile(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.Log.Warn("reconcile error", zap.Error(err))
	}
	mReconcileDur.Observe(time.Since(start).Seconds())
}

func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// Package subscription keeps the notifier's subscription set in line with
// the local wallet table.
package subscription

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type Notifier interface {
	Subscribe(ctx context.Context, account string) error
	ListSubscriptions(ctx context.Context) ([]string, error)
}

// AddressSource lists the public keys that should be watched.
type AddressSource interface {
	ListActiveAddresses(ctx context.Context) ([]string, error)
}

var _ Notifier = (*Client)(nil)

type Options struct {
	BatchSize  int
	BatchPause time.Duration
}

type Manager struct {
	notifier Notifier
	source   AddressSource
	log      *zap.Logger
	opts     Options
}

type Stats struct {
	Local      int
	Remote     int
	Missing    int
	Subscribed int
	Failed     int
}

func NewManager(n Notifier, src AddressSource, log *zap.Logger, opts Options) *Manager {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.BatchPause < 0 {
		opts.BatchPause = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		notifier: n,
		source:   src,
		log:      log.With(zap.String("component", "subscription.manager")),
		opts:     opts,
	}
}

// Subscribe is best effort: failures are logged and reported as false.
func (m *Manager) Subscribe(ctx context.Context, publicKey string) bool {
	if err := m.notifier.Subscribe(ctx, publicKey); err != nil {
		m.log.Warn("subscribe failed", zap.String("account", publicKey), zap.Error(err))
		return false
	}
	m.log.Debug("subscribed", zap.String("account", publicKey))
	return true
}

// ListRemote returns the subscribed set, empty when the notifier cannot be
// reached so that reconciliation errs toward subscribing again.
func (m *Manager) ListRemote(ctx context.Context) map[string]struct{} {
	keys, err := m.notifier.ListSubscriptions(ctx)
	if err != nil {
		m.log.Warn("list subscriptions failed", zap.Error(err))
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Reconcile subscribes every local address missing on the notifier side.
// It never unsubscribes.
func (m *Manager) Reconcile(ctx context.Context) (Stats, error) {
	ctx, span := otel.Tracer("subscription").Start(ctx, "subscription.reconcile")
	defer span.End()

	var st Stats
	m.log.Info("reconcile started")

	local, err := m.source.ListActiveAddresses(ctx)
	if err != nil {
		span.RecordError(err)
		return st, fmt.Errorf("list local addresses: %w", err)
	}
	remote := m.ListRemote(ctx)
	st.Local, st.Remote = len(local), len(remote)

	missing := make([]string, 0)
	seen := make(map[string]struct{}, len(local))
	for _, addr := range local {
		if _, dup := seen[addr]; dup || addr == "" {
			continue
		}
		seen[addr] = struct{}{}
		if _, ok := remote[addr]; !ok {
			missing = append(missing, addr)
		}
	}
	st.Missing = len(missing)

	for i, addr := range missing {
		if m.Subscribe(ctx, addr) {
			st.Subscribed++
			mReconcileSubscribed.Inc()
		} else {
			st.Failed++
		}
		if (i+1)%m.opts.BatchSize == 0 && i+1 < len(missing) {
			if err := sleep(ctx, m.opts.BatchPause); err != nil {
				return st, err
			}
		}
	}

	span.SetAttributes(
		attribute.Int("reconcile.local", st.Local),
		attribute.Int("reconcile.remote", st.Remote),
		attribute.Int("reconcile.subscribed", st.Subscribed),
		attribute.Int("reconcile.failed", st.Failed),
	)
	m.log.Info("reconcile finished",
		zap.Int("local", st.Local),
		zap.Int("remote", st.Remote),
		zap.Int("missing", st.Missing),
		zap.Int("subscribed", st.Subscribed),
		zap.Int("failed", st.Failed),
	)
	return st, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

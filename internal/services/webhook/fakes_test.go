package webhook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stellarwallet/relay/internal/domain/filter"
	"github.com/stellarwallet/relay/internal/domain/notification"
	"github.com/stellarwallet/relay/internal/domain/operation"
	"github.com/stellarwallet/relay/internal/domain/wallet"
)

type fakeWallets struct {
	mu      sync.Mutex
	wallets []*wallet.Wallet
	err     error
	panics  bool
	calls   int
}

func (f *fakeWallets) ListByPublicKeys(_ context.Context, keys []string) ([]*wallet.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panics {
		panic("wallet repo exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []*wallet.Wallet
	for _, w := range f.wallets {
		if want[w.PublicKey] {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWallets) GetDefault(context.Context, int64) (*wallet.Wallet, error) {
	return nil, errors.New("not used")
}

func (f *fakeWallets) ListActiveAddresses(context.Context) ([]string, error) { return nil, nil }

type fakeFilters struct {
	byUser map[int64][]filter.Filter
	err    error
}

func (f *fakeFilters) ListByUser(_ context.Context, userID int64) ([]filter.Filter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

type fakeRenderer struct {
	failFor map[int64]bool
}

func (r *fakeRenderer) Render(_ context.Context, op operation.Operation, p operation.Perspective, userID int64) (string, error) {
	if r.failFor[userID] {
		return "", errors.New("no template")
	}
	return fmt.Sprintf("%s %s %s %s", op.Type, p, op.Amount, op.Asset), nil
}

type sent struct {
	UserID int64
	Text   string
}

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sent
	failFor map[int64]bool
}

func (m *fakeMessenger) SendText(_ context.Context, userID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[userID] {
		return errors.New("bot blocked by user")
	}
	m.sent = append(m.sent, sent{UserID: userID, Text: text})
	return nil
}

func (m *fakeMessenger) Sent() []sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sent(nil), m.sent...)
}

type fakeEvents struct {
	mu  sync.Mutex
	got []notification.Delivery
	err error
}

func (e *fakeEvents) PublishDelivered(_ context.Context, d notification.Delivery) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.got = append(e.got, d)
	return e.err
}

var (
	_ wallet.Repo                 = (*fakeWallets)(nil)
	_ filter.Repo                 = (*fakeFilters)(nil)
	_ notification.Renderer       = (*fakeRenderer)(nil)
	_ notification.Messenger      = (*fakeMessenger)(nil)
	_ notification.EventPublisher = (*fakeEvents)(nil)
)

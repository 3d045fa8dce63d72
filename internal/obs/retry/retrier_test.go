package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

type noWait struct{}

func (noWait) Next(int) time.Duration { return 0 }

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Name: "test_ok", Attempts: 5, Backoff: noWait{}}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhausts(t *testing.T) {
	calls, exhausted := 0, false
	want := errors.New("down")
	err := Do(context.Background(), Policy{Name: "test_exhaust", Attempts: 3, Backoff: noWait{}, OnExhaust: func(error) { exhausted = true }},
		func(context.Context) error {
			calls++
			return want
		})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 3, calls)
	assert.True(t, exhausted)
}

func TestDo_NonRetryableStopsEarly(t *testing.T) {
	calls := 0
	p := PublishPolicy(zap.NewNop())
	p.Backoff = noWait{}
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, Policy{Name: "test_cancel", Attempts: 3, Backoff: Exponential{Base: time.Hour}},
		func(context.Context) error { return errors.New("x") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_NilBackoffUsesDefault(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Name: "test_nil_backoff", Attempts: 2}, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("once")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_BudgetBoundsTheCall(t *testing.T) {
	start := time.Now()
	err := Do(context.Background(), Policy{Name: "test_budget", Attempts: 10, Backoff: Exponential{Base: time.Hour}, Budget: 20 * time.Millisecond},
		func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return errors.New("stalled")
		})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDo_RecordsAttemptEvents(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")

	_ = Do(ctx, Policy{Name: "test_events", Attempts: 2, Backoff: noWait{}}, func(context.Context) error {
		return errors.New("boom")
	})
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	events := ended[0].Events()
	require.Len(t, events, 2)
	assert.Equal(t, "retry.attempt", events[1].Name)
	assert.Contains(t, events[1].Attributes, attribute.Int("retry.attempt", 2))
	assert.Contains(t, events[1].Attributes, attribute.String("error", "boom"))
}

func TestExponential_Capped(t *testing.T) {
	b := Exponential{Base: 100 * time.Millisecond, Max: time.Second}
	assert.Equal(t, 100*time.Millisecond, b.Next(0))
	assert.Equal(t, 400*time.Millisecond, b.Next(2))
	assert.Equal(t, time.Second, b.Next(10))
}

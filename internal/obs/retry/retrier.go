package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Backoff interface {
	Next(attempt int) time.Duration
}

// Exponential doubles Base per attempt up to Max, spread by +/- Jitter.
type Exponential struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

func (b Exponential) Next(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(b.Base) * math.Pow(2, float64(attempt))
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*b.Jitter
	}
	return time.Duration(d)
}

var defaultBackoff Backoff = Exponential{Base: 50 * time.Millisecond, Max: time.Second}

type Policy struct {
	Name     string
	Attempts int
	// Backoff defaults to 50ms doubling up to 1s.
	Backoff Backoff
	// Budget bounds the whole call, waits included. Zero means unbounded.
	Budget    time.Duration
	Retryable func(error) bool
	OnAttempt func(attempt int, err error)
	OnExhaust func(lastErr error)
}

var (
	mAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_retry_attempts_total",
		Help: "Attempts made under a retry policy, by result.",
	}, []string{"name", "result"})
	mExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_retry_exhausted_total",
		Help: "Calls that gave up after their last attempt.",
	}, []string{"name"})
	mDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_retry_duration_seconds",
		Help:    "Wall time of a retried call, waits included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"name"})
)

// Do runs fn until it succeeds, returns a non-retryable error, runs out of
// attempts, or ctx (narrowed by p.Budget) is done.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	name := p.Name
	if name == "" {
		name = "default"
	}
	attempts := max(p.Attempts, 1)
	backoff := p.Backoff
	if backoff == nil {
		backoff = defaultBackoff
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = func(err error) bool { return err != nil }
	}
	if p.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Budget)
		defer cancel()
	}

	start := time.Now()
	defer func() { mDuration.WithLabelValues(name).Observe(time.Since(start).Seconds()) }()
	span := trace.SpanFromContext(ctx)

	var err error
loop:
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			mAttempts.WithLabelValues(name, "ok").Inc()
			return nil
		}
		mAttempts.WithLabelValues(name, "error").Inc()
		span.AddEvent("retry.attempt", trace.WithAttributes(
			attribute.String("retry.name", name),
			attribute.Int("retry.attempt", i+1),
			attribute.String("error", err.Error()),
		))
		if p.OnAttempt != nil {
			p.OnAttempt(i, err)
		}
		if !retryable(err) || i == attempts-1 {
			break loop
		}

		t := time.NewTimer(backoff.Next(i))
		select {
		case <-ctx.Done():
			t.Stop()
			err = ctx.Err()
			break loop
		case <-t.C:
		}
	}

	mExhausted.WithLabelValues(name).Inc()
	if p.OnExhaust != nil {
		p.OnExhaust(err)
	}
	return err
}

package webhook

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stellarwallet/relay/internal/domain/filter"
	"github.com/stellarwallet/relay/internal/domain/notification"
	"github.com/stellarwallet/relay/internal/domain/operation"
	"github.com/stellarwallet/relay/internal/domain/wallet"
	"github.com/stellarwallet/relay/internal/history"
	"github.com/stellarwallet/relay/internal/normalizer"
	"github.com/stellarwallet/relay/internal/obs"
)

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeDiscarded Outcome = "discarded"
)

type Deps struct {
	Wallets   wallet.Repo
	Filters   filter.Repo
	Renderer  notification.Renderer
	Messenger notification.Messenger
	History   *history.Cache
	Dedup     *Dedup
	Events    notification.EventPublisher
	Log       *zap.Logger
}

// Processor turns one decoded webhook into per-wallet deliveries.
type Processor struct {
	d   Deps
	log *zap.Logger
	now func() time.Time
}

func NewProcessor(d Deps) (*Processor, error) {
	switch {
	case d.Wallets == nil:
		return nil, fmt.Errorf("webhook: wallet repo is required")
	case d.Renderer == nil:
		return nil, fmt.Errorf("webhook: renderer is required")
	case d.Messenger == nil:
		return nil, fmt.Errorf("webhook: messenger is required")
	case d.History == nil:
		return nil, fmt.Errorf("webhook: history cache is required")
	}
	if d.Dedup == nil {
		dd, err := NewDedup(DefaultDedupCapacity)
		if err != nil {
			return nil, err
		}
		d.Dedup = dd
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{d: d, log: log.With(zap.String("component", "webhook.processor")), now: time.Now}, nil
}

func (p *Processor) WithClock(now func() time.Time) *Processor {
	cp := *p
	cp.now = now
	return &cp
}

// Process normalizes, deduplicates and delivers. Only a failure to resolve
// wallets is returned as an error; in that case the id is forgotten so the
// notifier's retry gets processed.
func (p *Processor) Process(ctx context.Context, payload normalizer.Payload) (Outcome, error) {
	tr := otel.Tracer("webhook")
	ctx, span := tr.Start(ctx, "webhook.process")
	defer span.End()
	log := obs.WithTrace(ctx, p.log)

	res := normalizer.FromPayload(payload)
	if !res.OK() {
		log.Warn("payload discarded", zap.Error(res.Err), zap.String("id", payload.Str("id")), zap.String("type", payload.Str("type")))
		span.SetAttributes(attribute.String("webhook.outcome", string(OutcomeDiscarded)))
		return OutcomeDiscarded, nil
	}
	op := res.Op
	span.SetAttributes(
		attribute.String("operation.id", op.ID),
		attribute.String("operation.type", string(op.Type)),
	)

	if p.d.Dedup.Seen(op.ID) {
		mDuplicates.Inc()
		log.Debug("duplicate operation ignored", zap.String("id", op.ID))
		span.SetAttributes(attribute.String("webhook.outcome", string(OutcomeDuplicate)))
		return OutcomeDuplicate, nil
	}

	wallets, err := p.d.Wallets.ListByPublicKeys(ctx, op.Accounts())
	if err != nil {
		p.d.Dedup.Forget(op.ID)
		span.RecordError(err)
		return "", fmt.Errorf("resolve wallets for %s: %w", op.ID, err)
	}
	if len(wallets) == 0 {
		log.Debug("no local wallets for operation", zap.String("id", op.ID), zap.Strings("accounts", op.Accounts()))
	}

	for _, w := range wallets {
		p.deliver(ctx, op, w)
	}
	span.SetAttributes(
		attribute.Int("webhook.wallets", len(wallets)),
		attribute.String("webhook.outcome", string(OutcomeProcessed)),
	)
	return OutcomeProcessed, nil
}

func (p *Processor) deliver(ctx context.Context, op operation.Operation, w *wallet.Wallet) {
	ctx, span := otel.Tracer("webhook").Start(ctx, "webhook.deliver", trace.WithAttributes(
		attribute.Int64("wallet.id", w.ID),
		attribute.Int64("user.id", w.UserID),
	))
	defer span.End()
	log := obs.WithTrace(ctx, p.log).With(
		zap.String("id", op.ID),
		zap.Int64("user_id", w.UserID),
		zap.Int64("wallet_id", w.ID),
	)
	defer func() {
		if r := recover(); r != nil {
			mDeliveries.WithLabelValues("panic").Inc()
			log.Error("delivery panic", zap.Any("panic", r))
		}
	}()

	if p.suppressed(ctx, log, op, w) {
		mDeliveries.WithLabelValues("suppressed").Inc()
		span.SetAttributes(attribute.String("delivery.result", "suppressed"))
		return
	}

	perspective := op.PerspectiveFor(w.PublicKey)
	text, err := p.d.Renderer.Render(ctx, op, perspective, w.UserID)
	if err != nil {
		mDeliveries.WithLabelValues("render_error").Inc()
		span.RecordError(err)
		log.Error("render failed", zap.Error(err))
		return
	}
	if err := p.d.Messenger.SendText(ctx, w.UserID, text); err != nil {
		mDeliveries.WithLabelValues("send_error").Inc()
		span.RecordError(err)
		log.Error("send failed", zap.Error(err))
		return
	}

	rec := p.d.History.Add(w.UserID, op, w.ID, w.PublicKey)
	mDeliveries.WithLabelValues("delivered").Inc()
	span.SetAttributes(attribute.String("delivery.result", "delivered"))

	if p.d.Events == nil {
		return
	}
	ev := notification.Delivery{
		OperationID: op.ID,
		UserID:      w.UserID,
		WalletID:    w.ID,
		PublicKey:   w.PublicKey,
		Type:        string(op.Type),
		Perspective: string(perspective),
		Asset:       op.Asset,
		Amount:      op.Amount,
		RecordID:    rec.ID,
		DeliveredAt: p.now().UTC(),
	}
	if err := p.d.Events.PublishDelivered(ctx, ev); err != nil {
		log.Warn("delivery event dropped", zap.Error(err))
	}
}

// suppressed loads the user's filters. When they cannot be loaded the
// notification goes out unfiltered.
func (p *Processor) suppressed(ctx context.Context, log *zap.Logger, op operation.Operation, w *wallet.Wallet) bool {
	if p.d.Filters == nil {
		return false
	}
	filters, err := p.d.Filters.ListByUser(ctx, w.UserID)
	if err != nil {
		log.Warn("filters unavailable, delivering unfiltered", zap.Error(err))
		return false
	}
	return filter.ShouldSuppress(op, filters, w.PublicKey)
}

package main

import (
	"context"

	"go.uber.org/zap"

	config "github.com/stellarwallet/relay/internal/config/relay"
	"github.com/stellarwallet/relay/internal/domain/notification"
	"github.com/stellarwallet/relay/internal/history"
	"github.com/stellarwallet/relay/internal/obs/retry"
	"github.com/stellarwallet/relay/internal/render"
	kafkarepo "github.com/stellarwallet/relay/internal/repository/kafka"
	pg "github.com/stellarwallet/relay/internal/repository/postgres"
	"github.com/stellarwallet/relay/internal/repository/telegram"
	"github.com/stellarwallet/relay/internal/services/subscription"
	"github.com/stellarwallet/relay/internal/services/webhook"
	"github.com/stellarwallet/relay/internal/signature"
)

type services struct {
	webhook  *webhook.Server
	runner   *subscription.Runner
	history  *history.Cache
	producer *kafkarepo.Producer
	events   *kafkarepo.DeliveryEvents
}

func buildServices(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *pg.DB) (*services, error) {
	wallets := pg.NewWalletRepo(db)
	filters := pg.NewFilterRepo(db)

	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return nil, err
	}
	messenger := telegram.NewMessenger(bot, cfg.Telegram.ParseMode)

	signer, err := signature.NewSigner(cfg.Notifier.SecretSeed)
	if err != nil {
		return nil, err
	}
	if !signer.Enabled() {
		logger.Warn("notifier secret seed not set: subscription requests are sent unsigned")
	}
	verifier, err := signature.NewVerifier(cfg.Notifier.WebhookPublicKey, logger)
	if err != nil {
		return nil, err
	}

	hist := history.New(cfg.History.AsCacheConfig())
	dedup, err := webhook.NewDedup(cfg.Dedup.Capacity)
	if err != nil {
		return nil, err
	}

	out := &services{history: hist}
	var events notification.EventPublisher
	if cfg.Kafka.Enable {
		out.producer = kafkarepo.BootstrapProducer(ctx, cfg.Kafka, logger)
		out.events = kafkarepo.NewDeliveryEvents(out.producer, retry.PublishPolicy(logger), kafkarepo.DefaultEventBuffer, logger)
		events = out.events
	}

	proc, err := webhook.NewProcessor(webhook.Deps{
		Wallets:   wallets,
		Filters:   filters,
		Renderer:  render.New(wallets),
		Messenger: messenger,
		History:   hist,
		Dedup:     dedup,
		Events:    events,
		Log:       logger,
	})
	if err != nil {
		return nil, err
	}
	out.webhook = webhook.NewServer(verifier, proc, db, logger, cfg.Server.MaxBodyBytes)

	client := subscription.NewClient(subscription.ClientConfig{
		BaseURL:     cfg.Notifier.BaseURL,
		ReactionURL: cfg.Notifier.ReactionURL,
		Timeout:     cfg.Notifier.Timeout,
	}, signer, nil)
	manager := subscription.NewManager(client, wallets, logger, subscription.Options{
		BatchSize:  cfg.Notifier.BatchSize,
		BatchPause: cfg.Notifier.BatchPause,
	})
	out.runner = subscription.NewRunner(logger, manager, cfg.Notifier.ReconcileInterval)
	return out, nil
}

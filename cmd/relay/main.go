package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	config "github.com/stellarwallet/relay/internal/config/relay"
	"github.com/stellarwallet/relay/internal/obs"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("RELAY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/relay.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting relay", zap.String("env", cfg.App.Env), zap.String("ver", cfg.App.Version))

	otelShutdown, err := initOTel(rootCtx, cfg)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := initDB(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	svc, err := buildServices(rootCtx, cfg, logger, db)
	if err != nil {
		logger.Fatal("build services", zap.Error(err))
	}
	if svc.producer != nil {
		defer func() { _ = svc.producer.Close() }()
	}

	metricsSrv := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, db.Ping, logger)
	httpSrv := buildHTTPServer(cfg, svc.webhook)

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		if err := serveHTTP(httpSrv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return ignoreCanceled(svc.runner.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(svc.history.RunCleanup(gctx, cfg.History.CleanupInterval, logger)) })
	if svc.events != nil {
		g.Go(func() error { return ignoreCanceled(svc.events.Run(gctx)) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal", zap.Error(context.Cause(gctx)))
		shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		_ = metricsSrv.Shutdown(shCtx)
		return httpSrv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("relay stopped with error", zap.Error(err))
	}
	logger.Info("bye")
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

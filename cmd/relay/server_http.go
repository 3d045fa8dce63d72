package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	config "github.com/stellarwallet/relay/internal/config/relay"
	"github.com/stellarwallet/relay/internal/obs"
	"github.com/stellarwallet/relay/internal/services/webhook"
)

func buildHTTPServer(cfg *config.Config, srv *webhook.Server) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           obs.HTTPHandler(srv.Routes(), "relay.webhook"),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

package main

import (
	config "github.com/stellarwallet/relay/internal/config/relay"
	"github.com/stellarwallet/relay/internal/obs"
	"go.uber.org/zap"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(cfg.AsLoggerConfig())
}

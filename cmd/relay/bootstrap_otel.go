package main

import (
	"context"

	config "github.com/stellarwallet/relay/internal/config/relay"
	"github.com/stellarwallet/relay/internal/obs"
)

func initOTel(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	closer, err := obs.SetupOTel(ctx, cfg.AsOTELConfig())
	if err != nil {
		return nil, err
	}
	return closer.Shutdown, nil
}

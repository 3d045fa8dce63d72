package main

import (
	"context"

	config "github.com/stellarwallet/relay/internal/config/relay"
	pg "github.com/stellarwallet/relay/internal/repository/postgres"
	"go.uber.org/zap"
)

func initDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pg.DB, error) {
	db, err := pg.New(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("db connected", zap.Int32("max_conns", db.Pool.Config().MaxConns))
	return db, nil
}

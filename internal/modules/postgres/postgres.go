package postgres

import (
	"context"
	"fmt"
	"stock_watch/internal/modules/config"
	"stock_watch/pkg/db"

	"go.uber.org/fx"
)

// NewTxManager открывает пул и закрывает его на остановке приложения.
// Вызывается только когда выбран postgres-драйвер, чтобы memory/file не требовали БД.
func NewTxManager(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN:      cfg.DB,
		MaxConns: cfg.Store.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	err = poolMaster.Ping(ctx)
	if err != nil {
		poolMaster.Close()
		return nil, err
	}

	tx := db.NewPgTxManager(poolMaster)
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				tx.Close()
				return nil
			},
		})
	}
	return tx, nil
}

package symbol_store

import (
	"context"
	"fmt"
	"stock_watch/internal/modules/config"
	"stock_watch/internal/modules/postgres"
	"stock_watch/internal/modules/symbol_store/service"
	"stock_watch/internal/modules/symbol_store/service/file"
	"stock_watch/internal/modules/symbol_store/service/memory"
	"stock_watch/internal/modules/symbol_store/service/pg"
	"stock_watch/pkg/logger"

	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Ctx context.Context
	Lc  fx.Lifecycle
	Cfg *config.Config
}

// NewStore выбирает реализацию по store.driver
func NewStore(p Params) (service.Store, error) {
	switch p.Cfg.Store.Driver {
	case config.StoreMemory:
		return memory.NewSymbols(p.Cfg.Store.Seed...), nil
	case config.StoreFile:
		return file.NewSymbols(p.Cfg.Store.Path), nil
	case config.StorePostgres:
		tx, err := postgres.NewTxManager(p.Ctx, p.Lc, p.Cfg)
		if err != nil {
			return nil, err
		}
		return pg.NewSymbols(tx), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", p.Cfg.Store.Driver)
	}
}

func Module() fx.Option {
	return fx.Module("symbol_store",
		fx.Provide(
			NewStore,           // -> service.Store
			service.NewAdapter, // -> *service.Adapter
		),
		fx.Invoke(func(cfg *config.Config) {
			logger.Info("[STORE] driver=%s", cfg.Store.Driver)
		}),
	)
}

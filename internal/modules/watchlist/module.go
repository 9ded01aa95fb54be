package watchlist

import (
	"context"
	"stock_watch/internal/modules/config"
	market "stock_watch/internal/modules/market_data/service"
	store "stock_watch/internal/modules/symbol_store/service"
	"stock_watch/internal/modules/watchlist/service"
	"stock_watch/pkg/logger"

	"go.uber.org/fx"
)

func NewEngine(cfg *config.Config, symbols *store.Adapter, lookup *market.Lookup) *service.Engine {
	return service.NewEngine(symbols, lookup, service.Options{
		MaxConcurrency: cfg.Watchlist.MaxConcurrency,
		LookupTimeout:  cfg.Watchlist.LookupTimeout,
		ValidateOnAdd:  cfg.Watchlist.ValidateOnAdd,
	})
}

func Module() fx.Option {
	return fx.Module("watchlist",
		fx.Provide(
			NewEngine, // -> *service.Engine
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, e *service.Engine) {
			if !cfg.Watchlist.SyncOnStart {
				return
			}
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					// первая загрузка в фоне, чтобы не держать старт приложения
					go func() {
						ds, err := e.Synchronize(ctx)
						if err != nil {
							logger.Error("[BOOT] initial sync error: %v", err)
							return
						}
						logger.Info("[BOOT] initial sync done: %d rows", len(ds))
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}

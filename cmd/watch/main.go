package main

import (
	"context"
	"log"

	"stock_watch/internal/modules/config"
	"stock_watch/internal/modules/httpapi"
	"stock_watch/internal/modules/market_data"
	"stock_watch/internal/modules/symbol_store"
	telegram "stock_watch/internal/modules/telegram_bot"
	"stock_watch/internal/modules/watchlist"
	"stock_watch/pkg/logger"
	"stock_watch/pkg/tracing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// setupObservability перенастраивает логгер под конфиг и поднимает трейсер
func setupObservability(lc fx.Lifecycle, cfg *config.Config) error {
	if err := logger.Init(cfg.Service.LogLevel); err != nil {
		return err
	}
	logger.SetServiceName(cfg.Service.Name)
	tracing.SetServiceName(cfg.Service.Name)

	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			logger.Sync()
			return nil
		},
	})
	return nil
}

func main() {
	// до чтения конфига пишем на info
	if err := logger.Init("info"); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.InfoLogger}
		}),
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		fx.Invoke(setupObservability),
		symbol_store.Module(),
		market_data.Module(),
		watchlist.Module(),
		httpapi.Module(),
		telegram.Module(),
	)
	app.Run()
}

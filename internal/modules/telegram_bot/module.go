package telegram

import (
	"context"

	"stock_watch/internal/modules/config"
	"stock_watch/internal/modules/telegram_bot/service"
	watch "stock_watch/internal/modules/watchlist/service"
	"stock_watch/pkg/logger"

	"go.uber.org/fx"
)

// Run поднимает бота, если задан токен. Без токена модуль просто молчит.
func Run(lc fx.Lifecycle, cfg *config.Config, engine *watch.Engine) error {
	if cfg.Telegram.Token == "" {
		logger.Info("[TG] token is empty, bot disabled")
		return nil
	}
	t, err := service.NewTelegram(cfg.Telegram.Token, engine)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go t.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			t.Stop()
			return nil
		},
	})
	return nil
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Invoke(Run),
	)
}

package market_data

import (
	"fmt"
	"stock_watch/internal/modules/config"
	"stock_watch/internal/modules/market_data/service"
	"stock_watch/internal/modules/market_data/service/httpquote"
	"stock_watch/internal/modules/market_data/service/yahoo"
	"stock_watch/pkg/logger"

	"go.uber.org/fx"
)

// NewProvider выбирает источник по provider.name
func NewProvider(cfg *config.Config) (service.Provider, error) {
	switch cfg.Provider.Name {
	case config.ProviderYahoo:
		return yahoo.NewProvider(), nil
	case config.ProviderHTTP:
		return httpquote.NewProvider(cfg.Provider.BaseURL, cfg.Provider.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

func Module() fx.Option {
	return fx.Module("market_data",
		fx.Provide(
			NewProvider,       // -> service.Provider
			service.NewLookup, // -> *service.Lookup
		),
		fx.Invoke(func(cfg *config.Config) {
			logger.Info("[MARKET] provider=%s", cfg.Provider.Name)
		}),
	)
}

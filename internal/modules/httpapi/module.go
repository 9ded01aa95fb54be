package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"stock_watch/internal/modules/config"
	"stock_watch/internal/modules/httpapi/service"
	watch "stock_watch/internal/modules/watchlist/service"
	"stock_watch/pkg/logger"
)

func NewMux(h *service.Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func NewHandlers(engine *watch.Engine, state *service.State) *service.Handlers {
	return service.NewHandlers(engine, state)
}

// TrackReadiness: сервис готов после первого коммита Dataset
func TrackReadiness(lc fx.Lifecycle, engine *watch.Engine, state *service.State) {
	updates, cancel := engine.Subscribe()
	go func() {
		for snap := range updates {
			state.Observe(snap)
		}
	}()
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Service.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("[HTTP] listening on %s", ln.Addr())
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("httpapi",
		fx.Provide(
			service.NewState,
			NewHandlers,
			NewMux,
		),
		fx.Invoke(TrackReadiness, RunHTTP),
	)
}

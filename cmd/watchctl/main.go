package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"stock_watch/internal/models"
	"stock_watch/internal/modules/config"
	"stock_watch/internal/modules/market_data"
	"stock_watch/internal/modules/symbol_store"
	view "stock_watch/internal/modules/view/service"
	"stock_watch/internal/modules/watchlist"
	watch "stock_watch/internal/modules/watchlist/service"
	"stock_watch/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

type options struct {
	format  string
	timeout time.Duration
}

// withEngine поднимает хранилище и провайдер через те же fx-модули, что и сервис, без стартовой синхронизации
func withEngine(ctx context.Context, fn func(context.Context, *watch.Engine) error) error {
	var engine *watch.Engine
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		config.Module(),
		fx.Decorate(func(cfg *config.Config) *config.Config {
			c := *cfg
			c.Watchlist.SyncOnStart = false
			return &c
		}),
		symbol_store.Module(),
		market_data.Module(),
		watchlist.Module(),
		fx.Populate(&engine),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	return fn(ctx, engine)
}

func printDataset(w io.Writer, format string, ds models.Dataset) error {
	switch format {
	case formatJSON:
		if ds == nil {
			ds = models.Dataset{}
		}
		b, err := sonic.ConfigDefault.MarshalIndent(ds, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatTable:
		if len(ds) == 0 {
			_, err := fmt.Fprintln(w, "watch-list is empty")
			return err
		}
		view.Render(w, view.Project(ds))
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "watchctl",
		Short:         "Manage the stock watch-list and print its metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.format != formatTable && opts.format != formatJSON {
				return fmt.Errorf("unknown format %q", opts.format)
			}
			return logger.Init(getenv("LOG_LEVEL", "warn"))
		},
	}
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table|json")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall timeout")

	run := func(cmd *cobra.Command, op func(context.Context, *watch.Engine) (models.Dataset, error)) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
		defer cancel()
		return withEngine(ctx, func(ctx context.Context, e *watch.Engine) error {
			ds, err := op(ctx, e)
			if err != nil {
				return err
			}
			return printDataset(cmd.OutOrStdout(), opts.format, ds)
		})
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Synchronize and print the metrics table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, func(ctx context.Context, e *watch.Engine) (models.Dataset, error) {
					return e.Synchronize(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "add CODE",
			Short: "Track a ticker and print the refreshed table",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, e *watch.Engine) (models.Dataset, error) {
					return e.RequestAdd(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "remove CODE",
			Short: "Stop tracking a ticker and print the refreshed table",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, e *watch.Engine) (models.Dataset, error) {
					return e.RequestRemove(ctx, args[0])
				})
			},
		},
	)
	return root
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

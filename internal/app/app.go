package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-console/internal/console"
	"github.com/xenking/order-console/internal/domain/checkout"
	"github.com/xenking/order-console/internal/storage/postgres"
)

// Run creates all dependencies and drives the interactive session until the
// user exits or the process is signalled. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("currency", cfg.Currency))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Telemetry instruments for the checkout workflow.
	meter := m.MeterProvider().Meter("order-console")
	placed, err := meter.Int64Counter("orders.placed")
	if err != nil {
		return errors.Wrap(err, "create counter")
	}

	deps := checkout.Deps{
		Catalog: postgres.NewProductRepository(pool),
		Orders:  postgres.NewOrderRepository(pool),
		Logger:  lg.Named("checkout"),
		Tracer:  m.TracerProvider().Tracer("order-console"),
		Placed:  placed,
	}

	ui := console.New(console.Config{
		Currency:     cfg.Currency,
		HistoryLimit: cfg.HistoryLimit,
	}, os.Stdin, os.Stdout, deps)

	// The console blocks on stdin reads, which do not observe context
	// cancellation. Closing stdin when the context ends unblocks the scanner
	// so a signal still shuts the session down cleanly.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return os.Stdin.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("Session finished")
	return nil
}

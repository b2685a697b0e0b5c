package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderpress/internal/domain/catalog"
	"orderpress/internal/domain/order"
	"orderpress/internal/render"
	"orderpress/internal/source/catalogjson"
	"orderpress/internal/source/export"
	"orderpress/internal/storage/postgres"
)

// Run executes one batch transformation: load the catalog, read the order
// export, aggregate and price the orders, and write the rendered document.
// It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg = lg.With(zap.String("run_id", uuid.New().String()))

	cat, err := loadCatalog(ctx, lg, cfg)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded", zap.Int("products", cat.Len()))

	rows, err := export.Read(cfg.ExportPath)
	if err != nil {
		return errors.Wrap(err, "read order export")
	}
	lg.Info("Export loaded", zap.String("path", cfg.ExportPath), zap.Int("rows", len(rows)))

	orders, err := order.NewAggregator(cat).Aggregate(ctx, rows)
	if err != nil {
		return err
	}
	lg.Info("Orders aggregated", zap.Int("orders", len(orders)))

	renderables := make([]order.RenderableOrder, len(orders))
	for i, o := range orders {
		renderables[i] = o.Finalize(cfg.DeliveryFee)
	}

	if err := writeDocument(cfg.OutputPath, renderables); err != nil {
		return errors.Wrap(err, "write document")
	}
	lg.Info("Document written", zap.String("path", cfg.OutputPath))

	return nil
}

// loadCatalog reads the full catalog before any aggregation starts: from
// the products table when a database URL is configured, otherwise from the
// JSON export file.
func loadCatalog(ctx context.Context, lg *zap.Logger, cfg *Config) (*catalog.Catalog, error) {
	if cfg.DatabaseURL == "" {
		lg.Info("Loading catalog from file", zap.String("path", cfg.CatalogPath))
		return catalogjson.Load(cfg.CatalogPath)
	}

	lg.Info("Loading catalog from database")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return nil, errors.Wrap(err, "run migrations")
	}

	return postgres.NewCatalogStore(pool).LoadAll(ctx)
}

func writeDocument(path string, orders []order.RenderableOrder) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}

	if err := render.HTML(f, orders); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

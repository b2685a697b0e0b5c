package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config holds the complete run configuration, loadable from environment
// variables (ORDERPRESS_ prefix), flags, or YAML config files.
type Config struct {
	ExportPath  string          `default:"order_export.csv" usage:"Path to the order export CSV (decompressed on the fly when it ends in .gz)" flag:"export"`
	CatalogPath string          `default:"products.json" usage:"Path to the products JSON catalog" flag:"catalog"`
	DatabaseURL string          `usage:"PostgreSQL connection URL; when set, the catalog is loaded from the products table instead of the JSON file" flag:"database-url"`
	OutputPath  string          `default:"orders.html" usage:"Path of the rendered HTML document" flag:"output"`
	DeliveryFee decimal.Decimal `default:"20" usage:"Flat delivery surcharge added to delivery orders" flag:"delivery-fee"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ORDERPRESS",
		Files:     []string{"config.yaml", "/etc/orderpress/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.ExportPath == "" {
		return nil, errors.New("export path is required: set --export or ORDERPRESS_EXPORT_PATH")
	}
	if cfg.DeliveryFee.IsNegative() {
		return nil, errors.Errorf("delivery fee must not be negative, got %s", cfg.DeliveryFee)
	}

	return &cfg, nil
}

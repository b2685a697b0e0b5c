// Package catalogjson loads the product catalog from the store's JSON
// export.
package catalogjson

import (
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"orderpress/internal/domain/catalog"
)

// The store export nests product names under per-locale description keys;
// "3" is the Hebrew locale.
const nameLocale = "3"

type productRecord struct {
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Description map[string]struct {
		Name string `json:"name"`
	} `json:"product_description"`
}

type exportFile struct {
	Products []productRecord `json:"products"`
}

// Load reads and parses the catalog JSON file at path.
func Load(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}

	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse catalog file %s", path)
	}
	return c, nil
}

// Parse builds a catalog from the raw JSON export
// ({"products":[{"sku":..., "price":..., "product_description":{"3":{"name":...}}}]}).
// Prices may appear quoted or unquoted; both decode into a decimal.
func Parse(data []byte) (*catalog.Catalog, error) {
	var f exportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "unmarshal products JSON")
	}

	products := make([]catalog.Product, 0, len(f.Products))
	for _, rec := range f.Products {
		if rec.SKU == "" {
			return nil, errors.New("product with empty sku")
		}
		desc, ok := rec.Description[nameLocale]
		if !ok || desc.Name == "" {
			return nil, errors.Errorf("product %s: missing name for locale %s", rec.SKU, nameLocale)
		}
		if rec.Price.IsNegative() {
			return nil, errors.Errorf("product %s: negative price %s", rec.SKU, rec.Price)
		}
		products = append(products, catalog.Product{
			SKU:   rec.SKU,
			Name:  desc.Name,
			Price: rec.Price,
		})
	}

	return catalog.New(products), nil
}

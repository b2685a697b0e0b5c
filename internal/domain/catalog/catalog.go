// Package catalog holds the read-only product catalog used to price
// order line items.
package catalog

import (
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested SKU does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

// Product is a single catalog entry.
type Product struct {
	SKU   string
	Name  string
	Price decimal.Decimal
}

// Catalog maps SKU to product. It is built once by a source (JSON file or
// database) and never mutated afterwards, so it is safe to share across
// concurrent aggregation workers.
type Catalog struct {
	products map[string]Product
}

// New builds a Catalog from the given products. Later duplicates of the
// same SKU overwrite earlier ones.
func New(products []Product) *Catalog {
	m := make(map[string]Product, len(products))
	for _, p := range products {
		m[p.SKU] = p
	}
	return &Catalog{products: m}
}

// Lookup returns the product for the SKU, or ErrNotFound.
func (c *Catalog) Lookup(sku string) (Product, error) {
	p, ok := c.products[sku]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// Len reports the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns all catalog entries sorted by SKU.
func (c *Catalog) Products() []Product {
	products := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].SKU < products[j].SKU })
	return products
}

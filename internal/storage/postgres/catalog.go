package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"orderpress/internal/domain/catalog"
)

const (
	listProductsSQL = `SELECT sku, name, price FROM products ORDER BY sku`

	upsertProductSQL = `INSERT INTO products (sku, name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`
)

// CatalogStore reads and writes the products table.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore returns a CatalogStore that uses the given pool.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// LoadAll reads the whole products table into an in-memory catalog. The
// aggregator never queries the database row by row; the catalog is loaded
// once before processing starts.
func (s *CatalogStore) LoadAll(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := s.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("scanning products: %w", err)
	}
	return catalog.New(products), nil
}

// Upsert inserts or updates a single product.
func (s *CatalogStore) Upsert(ctx context.Context, p catalog.Product) error {
	if _, err := s.pool.Exec(ctx, upsertProductSQL, p.SKU, p.Name, p.Price); err != nil {
		return fmt.Errorf("upserting product %q: %w", p.SKU, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p     catalog.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.SKU, &p.Name, &price)
	p.Price = price
	return p, err
}

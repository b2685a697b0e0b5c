// Package order implements the aggregation and pricing engine: it groups
// raw export rows into orders, prices every line item against the product
// catalog, and produces the renderable form handed to the document renderer.
package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductNotFoundError indicates a row references a SKU absent from the
// catalog. A single bad SKU is a data-integrity defect in the export, so
// it aborts the whole run rather than skipping the row.
type ProductNotFoundError struct {
	SKU     string
	OrderID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("order %s: product %s not found in catalog", e.OrderID, e.SKU)
}

// MalformedRowError indicates an export row that cannot be priced: a
// missing required header field or a quantity that is not a positive
// integer. Row is the 1-based position in the input sequence.
type MalformedRowError struct {
	Row     int
	OrderID string
	Reason  string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d (order %s): %s", e.Row, e.OrderID, e.Reason)
}

// RawRow is one record of the order export: one purchased line item plus
// the order's header fields, repeated on every row of the same order.
// All fields are kept as raw strings; numeric cells are parsed during
// aggregation so malformed values surface as MalformedRowError.
type RawRow struct {
	OrderID string

	// Header fields, identical across all rows of one order.
	Name        string
	Email       string
	Phone       string
	Date        string
	Comment     string
	Total       string
	Status      string
	CreditLast4 string
	OrderType   string
	Address     string
	ApprovalID  string

	// Item fields, per row.
	SKU      string
	Quantity string
	Package  string
}

// Line is one priced item within an order.
type Line struct {
	Name      string
	Package   string
	UnitPrice decimal.Decimal
	Quantity  int
	Total     decimal.Decimal
}

// Order is one logical customer order: header attributes read from the
// group's first row plus one priced Line per export row, in input order.
// Finalize derives the renderable form without mutating the Order.
type Order struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Date        string
	Comment     string
	Total       decimal.Decimal
	Status      string
	CreditLast4 string
	OrderType   string
	Address     string
	ApprovalID  string

	Lines []Line
}

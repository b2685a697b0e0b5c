package order

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"orderpress/internal/domain/catalog"
	"orderpress/internal/domain/packaging"
)

// Aggregator turns the flat export row sequence into priced Orders.
// The catalog is read-only for the lifetime of the run, so a single
// Aggregator is safe for concurrent use.
type Aggregator struct {
	catalog *catalog.Catalog
}

// NewAggregator creates an Aggregator pricing against the given catalog.
func NewAggregator(c *catalog.Catalog) *Aggregator {
	return &Aggregator{catalog: c}
}

// rowGroup is one order's slice of the input: its rows plus their 1-based
// input positions, kept for error reporting.
type rowGroup struct {
	id        string
	rows      []RawRow
	positions []int
}

// Aggregate groups rows by order id and builds one Order per group.
// Groups are emitted in first-occurrence order of the id, and row order
// within a group is preserved. Independent groups are priced concurrently;
// the first malformed row or unknown SKU cancels the rest and aborts the
// whole run with no partial output.
func (a *Aggregator) Aggregate(ctx context.Context, rows []RawRow) ([]*Order, error) {
	var (
		groups []*rowGroup
		index  = make(map[string]*rowGroup)
	)
	for i, row := range rows {
		if strings.TrimSpace(row.OrderID) == "" {
			return nil, &MalformedRowError{Row: i + 1, OrderID: row.OrderID, Reason: "missing order id"}
		}
		grp, ok := index[row.OrderID]
		if !ok {
			grp = &rowGroup{id: row.OrderID}
			index[row.OrderID] = grp
			groups = append(groups, grp)
		}
		grp.rows = append(grp.rows, row)
		grp.positions = append(grp.positions, i+1)
	}

	// Fan out per group into an index-addressed slice, which restores
	// first-occurrence order regardless of completion order.
	orders := make([]*Order, len(groups))
	g, ctx := errgroup.WithContext(ctx)
	for i, grp := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := a.buildOrder(grp)
			if err != nil {
				return err
			}
			orders[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "aggregate orders")
	}

	return orders, nil
}

// buildOrder constructs one Order from a row group: header from the first
// row, one priced line per row.
func (a *Aggregator) buildOrder(grp *rowGroup) (*Order, error) {
	first := grp.rows[0]

	total, err := parseHeaderTotal(first, grp.positions[0])
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:          first.OrderID,
		Name:        first.Name,
		Email:       first.Email,
		Phone:       first.Phone,
		Date:        first.Date,
		Comment:     first.Comment,
		Total:       total,
		Status:      first.Status,
		CreditLast4: first.CreditLast4,
		OrderType:   first.OrderType,
		Address:     first.Address,
		ApprovalID:  first.ApprovalID,
		Lines:       make([]Line, 0, len(grp.rows)),
	}

	if o.Name == "" {
		return nil, &MalformedRowError{Row: grp.positions[0], OrderID: o.ID, Reason: "missing customer name"}
	}
	if o.OrderType == "" {
		return nil, &MalformedRowError{Row: grp.positions[0], OrderID: o.ID, Reason: "missing order type"}
	}

	for i, row := range grp.rows {
		line, err := a.buildLine(row, grp.positions[i])
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}

	return o, nil
}

// buildLine prices a single export row: catalog base price times the
// package multiplier, times the quantity.
func (a *Aggregator) buildLine(row RawRow, pos int) (Line, error) {
	p, err := a.catalog.Lookup(row.SKU)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Line{}, &ProductNotFoundError{SKU: row.SKU, OrderID: row.OrderID}
		}
		return Line{}, errors.Wrapf(err, "lookup product %s", row.SKU)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
	if err != nil {
		return Line{}, &MalformedRowError{Row: pos, OrderID: row.OrderID, Reason: "quantity is not an integer: " + strconv.Quote(row.Quantity)}
	}
	if qty <= 0 {
		return Line{}, &MalformedRowError{Row: pos, OrderID: row.OrderID, Reason: "quantity must be positive, got " + strconv.Itoa(qty)}
	}

	kind, label := packaging.Classify(strings.TrimSpace(row.Package))
	unitPrice := p.Price.Mul(decimal.NewFromInt(kind.Multiplier()))

	return Line{
		Name:      p.Name,
		Package:   label,
		UnitPrice: unitPrice,
		Quantity:  qty,
		Total:     unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}

func parseHeaderTotal(first RawRow, pos int) (decimal.Decimal, error) {
	raw := strings.TrimSpace(first.Total)
	if raw == "" {
		return decimal.Zero, &MalformedRowError{Row: pos, OrderID: first.OrderID, Reason: "missing payment total"}
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &MalformedRowError{Row: pos, OrderID: first.OrderID, Reason: "payment total is not a number: " + strconv.Quote(raw)}
	}
	return total, nil
}

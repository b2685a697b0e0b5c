package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderpress/internal/domain/catalog"
	"orderpress/internal/domain/packaging"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Product{
		{SKU: "P1", Name: "Cake", Price: decimal.NewFromInt(50)},
		{SKU: "P2", Name: "Mousse", Price: decimal.RequireFromString("32.50")},
	})
}

func headerRow(orderID, sku, qty, pkg string) RawRow {
	return RawRow{
		OrderID:   orderID,
		Name:      "דנה לוי",
		Email:     "dana@example.com",
		Phone:     "0501234567",
		Date:      "2021-05-26",
		Total:     "100",
		Status:    "שולם",
		OrderType: "איסוף עצמי",
		SKU:       sku,
		Quantity:  qty,
		Package:   pkg,
	}
}

func TestAggregate_StableGrouping(t *testing.T) {
	agg := NewAggregator(testCatalog())

	rows := []RawRow{
		headerRow("A", "P1", "1", ""),
		headerRow("B", "P2", "1", ""),
		headerRow("A", "P2", "3", ""),
		headerRow("C", "P1", "2", ""),
	}

	orders, err := agg.Aggregate(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, "A", orders[0].ID)
	assert.Equal(t, "B", orders[1].ID)
	assert.Equal(t, "C", orders[2].ID)

	// Order A keeps its rows in input order: P1 first, then P2.
	require.Len(t, orders[0].Lines, 2)
	assert.Equal(t, "Cake", orders[0].Lines[0].Name)
	assert.Equal(t, "Mousse", orders[0].Lines[1].Name)
	assert.Equal(t, 3, orders[0].Lines[1].Quantity)
}

func TestAggregate_Pricing(t *testing.T) {
	tests := []struct {
		name          string
		sku           string
		qty           string
		pkg           string
		wantPackage   string
		wantUnitPrice string
		wantTotal     string
	}{
		{
			name:          "no package defaults to unit at base price",
			sku:           "P1",
			qty:           "2",
			wantPackage:   packaging.LabelUnit,
			wantUnitPrice: "50",
			wantTotal:     "100",
		},
		{
			name:          "base container keeps base price",
			sku:           "P2",
			qty:           "1",
			pkg:           packaging.LabelBaseRound,
			wantPackage:   packaging.LabelBaseRound,
			wantUnitPrice: "32.5",
			wantTotal:     "32.5",
		},
		{
			name:          "double container doubles the unit price",
			sku:           "P1",
			qty:           "3",
			pkg:           "double:" + packaging.LabelDoubleRound,
			wantPackage:   packaging.LabelDoubleRound,
			wantUnitPrice: "100",
			wantTotal:     "300",
		},
		{
			name:          "unknown package is priced as double",
			sku:           "P1",
			qty:           "1",
			pkg:           "מארז מתנה",
			wantPackage:   "מארז מתנה",
			wantUnitPrice: "100",
			wantTotal:     "100",
		},
	}

	agg := NewAggregator(testCatalog())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := agg.Aggregate(context.Background(), []RawRow{
				headerRow("100", tt.sku, tt.qty, tt.pkg),
			})
			require.NoError(t, err)
			require.Len(t, orders, 1)
			require.Len(t, orders[0].Lines, 1)

			line := orders[0].Lines[0]
			assert.Equal(t, tt.wantPackage, line.Package)
			assert.Equal(t, tt.wantUnitPrice, line.UnitPrice.String())
			assert.Equal(t, tt.wantTotal, line.Total.String())
		})
	}
}

func TestAggregate_ProductNotFound(t *testing.T) {
	agg := NewAggregator(testCatalog())

	orders, err := agg.Aggregate(context.Background(), []RawRow{
		headerRow("100", "P1", "1", ""),
		headerRow("101", "P9", "1", ""),
	})

	require.Nil(t, orders)
	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "P9", nfErr.SKU)
	assert.Equal(t, "101", nfErr.OrderID)
}

func TestAggregate_MalformedQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  string
	}{
		{name: "zero", qty: "0"},
		{name: "negative", qty: "-2"},
		{name: "non-numeric", qty: "two"},
		{name: "empty", qty: ""},
		{name: "fractional", qty: "1.5"},
	}

	agg := NewAggregator(testCatalog())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.Aggregate(context.Background(), []RawRow{
				headerRow("100", "P1", tt.qty, ""),
			})

			var mrErr *MalformedRowError
			require.ErrorAs(t, err, &mrErr)
			assert.Equal(t, 1, mrErr.Row)
			assert.Equal(t, "100", mrErr.OrderID)
		})
	}
}

func TestAggregate_MissingHeaderFields(t *testing.T) {
	mutate := func(fn func(*RawRow)) []RawRow {
		row := headerRow("100", "P1", "1", "")
		fn(&row)
		return []RawRow{row}
	}

	tests := []struct {
		name string
		rows []RawRow
	}{
		{name: "missing customer name", rows: mutate(func(r *RawRow) { r.Name = "" })},
		{name: "missing order type", rows: mutate(func(r *RawRow) { r.OrderType = "" })},
		{name: "missing payment total", rows: mutate(func(r *RawRow) { r.Total = "" })},
		{name: "non-numeric payment total", rows: mutate(func(r *RawRow) { r.Total = "n/a" })},
		{name: "missing order id", rows: mutate(func(r *RawRow) { r.OrderID = "" })},
	}

	agg := NewAggregator(testCatalog())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.Aggregate(context.Background(), tt.rows)

			var mrErr *MalformedRowError
			require.ErrorAs(t, err, &mrErr)
		})
	}
}

func TestAggregate_RowPositionInErrors(t *testing.T) {
	agg := NewAggregator(testCatalog())

	_, err := agg.Aggregate(context.Background(), []RawRow{
		headerRow("100", "P1", "1", ""),
		headerRow("100", "P1", "nope", ""),
	})

	var mrErr *MalformedRowError
	require.ErrorAs(t, err, &mrErr)
	assert.Equal(t, 2, mrErr.Row)
}

func TestAggregate_EmptyInput(t *testing.T) {
	agg := NewAggregator(testCatalog())

	orders, err := agg.Aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestAggregate_PickupScenario(t *testing.T) {
	agg := NewAggregator(catalog.New([]catalog.Product{
		{SKU: "P1", Name: "Cake", Price: decimal.NewFromInt(50)},
	}))

	row := headerRow("100", "P1", "2", "")
	row.Comment = ""
	orders, err := agg.Aggregate(context.Background(), []RawRow{row})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "Cake", o.Lines[0].Name)
	assert.Equal(t, packaging.LabelUnit, o.Lines[0].Package)
	assert.Equal(t, "50", o.Lines[0].UnitPrice.String())
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.Equal(t, "100", o.Lines[0].Total.String())

	r := o.Finalize(decimal.NewFromInt(20))
	assert.False(t, r.IsDelivery)
	assert.Empty(t, r.Address)
	assert.Empty(t, r.Comment)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "Cake", r.Lines[0].Name)
	assert.Equal(t, "100", r.Lines[1].Total)
}

func TestAggregate_DeliveryScenario(t *testing.T) {
	agg := NewAggregator(catalog.New([]catalog.Product{
		{SKU: "P1", Name: "Cake", Price: decimal.NewFromInt(50)},
	}))

	row := headerRow("101", "P1", "1", "double:"+packaging.LabelDoubleRound)
	row.OrderType = "משלוח"
	row.Total = "120"
	row.Comment = "ring the bell"
	row.Address = "הרצל 10, תל אביב"

	orders, err := agg.Aggregate(context.Background(), []RawRow{row})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "100", o.Lines[0].UnitPrice.String())
	assert.Equal(t, "100", o.Lines[0].Total.String())

	r := o.Finalize(decimal.NewFromInt(20))
	assert.True(t, r.IsDelivery)
	assert.NotEmpty(t, r.Address)
	assert.NotEmpty(t, r.Comment)
	require.Len(t, r.Lines, 3)
	assert.Equal(t, "20", r.Lines[1].Total)
	assert.Equal(t, "120", r.Lines[2].Total)
}

// Package export reads the raw order export: a CSV file (optionally
// gzip-compressed) whose columns carry the store's Hebrew headers, one row
// per purchased line item.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"orderpress/internal/domain/order"
)

// Column headers as they appear in the export file.
const (
	colOrderID     = "מס הזמנה"
	colName        = "שם לקוח"
	colDate        = "תאריך"
	colEmail       = "אימייל"
	colPhone       = "טלפון"
	colTotal       = "סה״כ תשלום"
	colOrderType   = "סוג משלוח"
	colAddress     = "תשלום כתובת"
	colStatus      = "סטטוס"
	colComment     = "הערה"
	colApprovalID  = "מספר אישור"
	colCreditLast4 = "4 ספרות של הכרטיס"
	colPackage     = "אפשרויות מוצר"
	colQuantity    = "כמות פריטים"
	colSKU         = "מק''ט"
)

// Columns the reader refuses to proceed without. The remaining header
// columns are optional free text and default to empty when absent.
var requiredColumns = []string{
	colOrderID, colName, colTotal, colOrderType, colStatus, colQuantity, colSKU,
}

// Read loads the export at path. Files ending in .gz are decompressed on
// the fly.
func Read(path string) ([]order.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open export file")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	rows, err := Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse export %s", path)
	}
	return rows, nil
}

// Parse reads the CSV export from r: a header row naming the columns,
// then one record per line item. Column order is free; the header decides
// the mapping.
func Parse(r io.Reader) ([]order.RawRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("export is empty")
		}
		return nil, errors.Wrap(err, "read header row")
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []order.RawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read record %d", len(rows)+1)
		}
		rows = append(rows, order.RawRow{
			OrderID:     cols.cell(rec, colOrderID),
			Name:        cols.cell(rec, colName),
			Email:       cols.cell(rec, colEmail),
			Phone:       cols.cell(rec, colPhone),
			Date:        cols.cell(rec, colDate),
			Comment:     cols.cell(rec, colComment),
			Total:       cols.cell(rec, colTotal),
			Status:      cols.cell(rec, colStatus),
			CreditLast4: cols.cell(rec, colCreditLast4),
			OrderType:   cols.cell(rec, colOrderType),
			Address:     cols.cell(rec, colAddress),
			ApprovalID:  cols.cell(rec, colApprovalID),
			SKU:         cols.cell(rec, colSKU),
			Quantity:    cols.cell(rec, colQuantity),
			Package:     cols.cell(rec, colPackage),
		})
	}

	return rows, nil
}

type columnMap map[string]int

func mapColumns(header []string) (columnMap, error) {
	cols := make(columnMap, len(header))
	for i, h := range header {
		// Spreadsheet exports often prepend a BOM to the first cell.
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("export is missing required columns: %s", strings.Join(missing, ", "))
	}

	return cols, nil
}

func (m columnMap) cell(rec []string, col string) string {
	i, ok := m[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

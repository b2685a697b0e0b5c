// Package render turns finalized orders into the printable HTML document:
// one right-to-left page per order with the header block, the optional
// address and comment blocks, and the line table.
package render

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/go-faster/errors"

	"orderpress/internal/domain/order"
)

//go:embed orders.gohtml
var ordersTemplate string

var tmpl = template.Must(template.New("orders").Parse(ordersTemplate))

// HTML writes the rendered document for all orders to w, in the given
// order, one page per order.
func HTML(w io.Writer, orders []order.RenderableOrder) error {
	if err := tmpl.Execute(w, orders); err != nil {
		return errors.Wrap(err, "execute orders template")
	}
	return nil
}

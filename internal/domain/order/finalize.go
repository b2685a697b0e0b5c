package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DeliveryMarker is the substring of the order-type text that marks a
// delivery order. The export's order type is uncontrolled free text
// ("משלוח עד הבית", "איסוף עצמי", ...), so detection is deliberately a
// contains-test rather than an enumeration.
const DeliveryMarker = "משלוח"

// Labels used in the rendered document.
const (
	labelStatus         = "סטאטוס"
	labelDeliveryMethod = "שיטת מסירה"
	labelOrderNumber    = "מספר הזמנה"
	labelName           = "שם"
	labelPhone          = "טלפון"
	labelAddress        = "כתובת"
	labelComment        = "הערות"
	labelDelivery       = "משלוח"
	labelGrandTotal     = `סה"כ`
)

// RenderLine is one row of the rendered line table. Cells are display
// strings: synthetic lines (delivery surcharge, grand total) leave the
// cells they do not use blank.
type RenderLine struct {
	Name      string
	Package   string
	UnitPrice string
	Quantity  string
	Total     string
}

// RenderableOrder is the presentation-ready form of an Order, consumed by
// the document renderer.
type RenderableOrder struct {
	ID         string
	Title      string
	IsDelivery bool
	Address    string
	Comment    string
	Total      decimal.Decimal
	Lines      []RenderLine
}

// IsDelivery reports whether the order-type text contains the delivery
// marker. Anything else counts as pickup.
func (o *Order) IsDelivery() bool {
	return strings.Contains(o.OrderType, DeliveryMarker)
}

// Finalize derives the renderable form of the order: the labeled header
// block, the optional address and comment blocks, and the line table with
// a delivery surcharge row (delivery orders only) and the grand-total row
// appended last. It never mutates the Order, so repeated calls return
// identical results and synthetic rows are never appended twice.
func (o *Order) Finalize(deliveryFee decimal.Decimal) RenderableOrder {
	r := RenderableOrder{
		ID: o.ID,
		Title: strings.Join([]string{
			labelStatus + ": " + o.Status,
			labelDeliveryMethod + ": " + o.OrderType,
			labelOrderNumber + ": " + o.ID,
			labelName + ": " + o.Name,
			labelPhone + ": " + o.Phone,
		}, "\n"),
		IsDelivery: o.IsDelivery(),
		Total:      o.Total,
	}

	r.Lines = make([]RenderLine, 0, len(o.Lines)+2)
	for _, l := range o.Lines {
		r.Lines = append(r.Lines, RenderLine{
			Name:      l.Name,
			Package:   l.Package,
			UnitPrice: l.UnitPrice.String(),
			Quantity:  strconv.Itoa(l.Quantity),
			Total:     l.Total.String(),
		})
	}

	if r.IsDelivery {
		r.Address = labelAddress + ": " + o.Address
		r.Lines = append(r.Lines, RenderLine{
			Name:     labelDelivery,
			Quantity: "1",
			Total:    deliveryFee.String(),
		})
	}

	if o.Comment != "" {
		r.Comment = labelComment + ": " + o.Comment
	}

	r.Lines = append(r.Lines, RenderLine{
		Name:  labelGrandTotal,
		Total: o.Total.String(),
	})

	return r
}

// Package packaging classifies the free-text container labels carried by
// the order export into a closed size kind and its price multiplier.
package packaging

import "strings"

// Kind is the container size class of a line item.
type Kind int

const (
	// Base is a single-portion container, priced at the product's base price.
	Base Kind = iota
	// Double is a double-portion container, priced at twice the base price.
	Double
)

// Canonical container labels as they appear in the store's export.
const (
	LabelUnit        = "יחידה"
	LabelBaseRound   = "כלי עגול 250 גרם"
	LabelBasePlastic = "כלי פלסטיק 0.5 ליטר"

	LabelDoubleRound   = "כלי עגול 500 גרם"
	LabelDoublePlastic = "כלי פלסטיק 1 ליטר"
)

// Classify resolves a raw package label to its size kind and canonical
// label. An empty label means the item is sold by the unit. Labels arrive
// as "<qualifier>:<canonical-name>"; only the part after the last colon
// matters. Any non-empty label outside the base set is assumed to be a
// double-sized container rather than rejected.
func Classify(raw string) (Kind, string) {
	if raw == "" {
		return Base, LabelUnit
	}

	label := raw
	if i := strings.LastIndexByte(raw, ':'); i >= 0 {
		label = raw[i+1:]
	}

	switch label {
	case LabelUnit, LabelBaseRound, LabelBasePlastic:
		return Base, label
	default:
		return Double, label
	}
}

// Multiplier returns the price factor for the kind.
func (k Kind) Multiplier() int64 {
	if k == Double {
		return 2
	}
	return 1
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == Double {
		return "double"
	}
	return "base"
}

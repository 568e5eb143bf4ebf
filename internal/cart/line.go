package cart

import (
	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/shopspring/decimal"
)

type LineKind string

const (
	KindPizza  LineKind = "pizza"
	KindSimple LineKind = "simple"
)

// PizzaSpec is the configuration behind a pizza line.
type PizzaSpec struct {
	Size        menu.Size    `json:"size"`
	Flavors     []menu.Item  `json:"flavors"`
	Crust       menu.Crust   `json:"crust"`
	Extras      []menu.Extra `json:"extras,omitempty"`
	Observation string       `json:"observation,omitempty"`
}

type Line struct {
	ID        string          `json:"id"`
	Kind      LineKind        `json:"kind"`
	Item      menu.Item       `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Pizza     *PizzaSpec      `json:"pizza,omitempty"`
}

func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Qty() int { return l.Quantity }

// Simple builds a line for a non-customizable item at its catalog price.
func Simple(item menu.Item, qty int) (Line, error) {
	if item.Customizable() {
		return Line{}, apperr.Validation("cart.Simple", "%s must be configured as a pizza", item.Name)
	}
	if qty < 1 {
		return Line{}, apperr.Validation("cart.Simple", "quantity must be at least 1")
	}
	return Line{
		Kind:      KindSimple,
		Item:      item,
		Quantity:  qty,
		UnitPrice: item.Price,
	}, nil
}

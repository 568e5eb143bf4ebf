// Package pricing computes pizza, cart, and order amounts. Values are kept at
// full precision; rounding to cents happens only in Display.
package pricing

import (
	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/shopspring/decimal"
)

type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

func (m DeliveryMode) Valid() bool { return m == ModeDelivery || m == ModePickup }

// PizzaPrice blends the flavors with equal weight, applies the size multiplier
// and adds the crust and extras surcharges.
func PizzaPrice(flavors []decimal.Decimal, size menu.Size, crust menu.Crust, extras []menu.Extra) (decimal.Decimal, error) {
	if len(flavors) == 0 {
		return decimal.Zero, apperr.Validation("pricing.PizzaPrice", "at least one flavor is required")
	}
	if !size.Multiplier.IsPositive() {
		return decimal.Zero, apperr.Validation("pricing.PizzaPrice", "size %s has a non-positive multiplier", size.ID)
	}

	sum := decimal.Zero
	for _, f := range flavors {
		if f.IsNegative() {
			return decimal.Zero, apperr.Validation("pricing.PizzaPrice", "flavor price must not be negative")
		}
		sum = sum.Add(f)
	}
	base := sum
	if len(flavors) > 1 {
		base = sum.Div(decimal.NewFromInt(int64(len(flavors))))
	}

	price := base.Mul(size.Multiplier).Add(crust.Surcharge)

	seen := make(map[string]bool, len(extras))
	for _, e := range extras {
		if seen[e.ID] {
			return decimal.Zero, apperr.Validation("pricing.PizzaPrice", "extra %s selected twice", e.ID)
		}
		seen[e.ID] = true
		price = price.Add(e.Surcharge)
	}
	return price, nil
}

// Priced is a cart line as seen by the totals calculation.
type Priced interface {
	LineTotal() decimal.Decimal
	Qty() int
}

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

func CartTotals[T Priced](lines []T) Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.LineTotal())
		t.ItemCount += l.Qty()
	}
	return t
}

// OrderTotal adds the delivery fee for delivery orders only.
func OrderTotal(subtotal decimal.Decimal, mode DeliveryMode, fee decimal.Decimal) decimal.Decimal {
	if mode == ModeDelivery {
		return subtotal.Add(fee)
	}
	return subtotal
}

// FeeFor is the delivery fee an order in mode actually pays.
func FeeFor(mode DeliveryMode, fee decimal.Decimal) decimal.Decimal {
	if mode == ModeDelivery {
		return fee
	}
	return decimal.Zero
}

func Display(d decimal.Decimal) string { return d.StringFixed(2) }

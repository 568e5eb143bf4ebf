package cart

import (
	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/shopspring/decimal"
)

// Configurator assembles a pizza line. The flavor set never exceeds the
// selected size's MaxFlavors and never drops below one flavor.
type Configurator struct {
	catalog     *menu.Catalog
	pizza       menu.Item
	size        menu.Size
	flavors     []menu.Item
	crust       menu.Crust
	extras      []menu.Extra
	observation string
}

func NewConfigurator(catalog *menu.Catalog, pizzaID string) (*Configurator, error) {
	pizza, err := catalog.Item(pizzaID)
	if err != nil {
		return nil, err
	}
	if !pizza.Customizable() {
		return nil, apperr.Validation("cart.NewConfigurator", "%s is not a pizza", pizza.Name)
	}
	size, err := catalog.Size(menu.DefaultSize)
	if err != nil {
		size = catalog.Sizes()[0]
	}
	crust, err := catalog.Crust(menu.CrustNone)
	if err != nil {
		return nil, err
	}
	return &Configurator{
		catalog: catalog,
		pizza:   pizza,
		size:    size,
		flavors: []menu.Item{pizza},
		crust:   crust,
	}, nil
}

// SetSize switches size, keeping the first MaxFlavors flavors chosen so far.
func (c *Configurator) SetSize(id string) error {
	s, err := c.catalog.Size(id)
	if err != nil {
		return err
	}
	c.size = s
	if len(c.flavors) > s.MaxFlavors {
		c.flavors = c.flavors[:s.MaxFlavors]
	}
	return nil
}

func (c *Configurator) ToggleFlavor(id string) error {
	for i, f := range c.flavors {
		if f.ID == id {
			if len(c.flavors) == 1 {
				return apperr.Validation("cart.ToggleFlavor", "a pizza needs at least one flavor")
			}
			c.flavors = append(c.flavors[:i:i], c.flavors[i+1:]...)
			return nil
		}
	}
	if len(c.flavors) >= c.size.MaxFlavors {
		return apperr.Validation("cart.ToggleFlavor", "size %s allows at most %d flavor(s)", c.size.Name, c.size.MaxFlavors)
	}
	f, err := c.flavor(id)
	if err != nil {
		return err
	}
	c.flavors = append(c.flavors, f)
	return nil
}

// SetFlavors replaces the whole flavor set.
func (c *Configurator) SetFlavors(ids []string) error {
	if len(ids) == 0 {
		return apperr.Validation("cart.SetFlavors", "a pizza needs at least one flavor")
	}
	if len(ids) > c.size.MaxFlavors {
		return apperr.Validation("cart.SetFlavors", "size %s allows at most %d flavor(s)", c.size.Name, c.size.MaxFlavors)
	}
	seen := map[string]bool{}
	out := make([]menu.Item, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperr.Validation("cart.SetFlavors", "flavor %s selected twice", id)
		}
		seen[id] = true
		f, err := c.flavor(id)
		if err != nil {
			return err
		}
		out = append(out, f)
	}
	c.flavors = out
	return nil
}

func (c *Configurator) SetCrust(id string) error {
	cr, err := c.catalog.Crust(id)
	if err != nil {
		return err
	}
	c.crust = cr
	return nil
}

func (c *Configurator) ToggleExtra(id string) {
	for i, e := range c.extras {
		if e.ID == id {
			c.extras = append(c.extras[:i:i], c.extras[i+1:]...)
			return
		}
	}
	if e, err := c.catalog.Extra(id); err == nil {
		c.extras = append(c.extras, e)
	}
}

func (c *Configurator) SetExtras(ids []string) error {
	seen := map[string]bool{}
	out := make([]menu.Extra, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, err := c.catalog.Extra(id)
		if err != nil {
			return err
		}
		out = append(out, e)
	}
	c.extras = out
	return nil
}

func (c *Configurator) SetObservation(s string) { c.observation = s }

func (c *Configurator) Size() menu.Size { return c.size }

func (c *Configurator) Flavors() []menu.Item { return append([]menu.Item(nil), c.flavors...) }

func (c *Configurator) Extras() []menu.Extra { return append([]menu.Extra(nil), c.extras...) }

// Price is the unit price of the pizza as currently configured.
func (c *Configurator) Price() (decimal.Decimal, error) {
	prices := make([]decimal.Decimal, len(c.flavors))
	for i, f := range c.flavors {
		prices[i] = f.Price
	}
	return pricing.PizzaPrice(prices, c.size, c.crust, c.extras)
}

func (c *Configurator) Line(qty int) (Line, error) {
	if qty < 1 {
		return Line{}, apperr.Validation("cart.Configurator", "quantity must be at least 1")
	}
	unit, err := c.Price()
	if err != nil {
		return Line{}, err
	}
	return Line{
		Kind:      KindPizza,
		Item:      c.pizza,
		Quantity:  qty,
		UnitPrice: unit,
		Pizza: &PizzaSpec{
			Size:        c.size,
			Flavors:     c.Flavors(),
			Crust:       c.crust,
			Extras:      c.Extras(),
			Observation: c.observation,
		},
	}, nil
}

func (c *Configurator) flavor(id string) (menu.Item, error) {
	f, err := c.catalog.Item(id)
	if err != nil {
		return menu.Item{}, err
	}
	if !f.Customizable() {
		return menu.Item{}, apperr.Validation("cart.Configurator", "%s is not a pizza flavor", f.Name)
	}
	return f, nil
}

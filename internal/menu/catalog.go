package menu

import (
	"fmt"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/shopspring/decimal"
)

const (
	CrustNone   = "sem"
	DefaultSize = "media"
)

// Provider hands out the catalog loaded at startup.
type Provider interface {
	Catalog() *Catalog
}

// Catalog is read-only reference data; slices keep the display order.
type Catalog struct {
	items  []Item
	sizes  []Size
	crusts []Crust
	extras []Extra
}

func NewCatalog(items []Item, sizes []Size, crusts []Crust, extras []Extra) (*Catalog, error) {
	c := &Catalog{items: items, sizes: sizes, crusts: crusts, extras: extras}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Catalog lets a *Catalog act as its own Provider.
func (c *Catalog) Catalog() *Catalog { return c }

func (c *Catalog) Items(category Category) []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Featured() []Item {
	var out []Item
	for _, it := range c.items {
		if it.Featured {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Sizes() []Size   { return append([]Size(nil), c.sizes...) }
func (c *Catalog) Crusts() []Crust { return append([]Crust(nil), c.crusts...) }
func (c *Catalog) Extras() []Extra { return append([]Extra(nil), c.extras...) }

func (c *Catalog) Item(id string) (Item, error) {
	for _, it := range c.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, apperr.NotFound("menu.Item", "menu item %q not found", id)
}

func (c *Catalog) Size(id string) (Size, error) {
	for _, s := range c.sizes {
		if s.ID == id {
			return s, nil
		}
	}
	return Size{}, apperr.NotFound("menu.Size", "size %q not found", id)
}

// Crust resolves id; an empty id means the "none" crust.
func (c *Catalog) Crust(id string) (Crust, error) {
	if id == "" {
		id = CrustNone
	}
	for _, cr := range c.crusts {
		if cr.ID == id {
			return cr, nil
		}
	}
	return Crust{}, apperr.NotFound("menu.Crust", "crust %q not found", id)
}

func (c *Catalog) Extra(id string) (Extra, error) {
	for _, e := range c.extras {
		if e.ID == id {
			return e, nil
		}
	}
	return Extra{}, apperr.NotFound("menu.Extra", "extra %q not found", id)
}

func (c *Catalog) Validate() error {
	seen := map[string]bool{}
	for _, it := range c.items {
		if it.ID == "" || seen[it.ID] {
			return fmt.Errorf("menu: duplicate or empty item id %q", it.ID)
		}
		seen[it.ID] = true
		if it.Price.IsNegative() {
			return fmt.Errorf("menu: item %s has negative price", it.ID)
		}
		if !it.Category.Valid() {
			return fmt.Errorf("menu: item %s has unknown category %q", it.ID, it.Category)
		}
	}
	if len(c.sizes) == 0 {
		return fmt.Errorf("menu: no sizes configured")
	}
	for _, s := range c.sizes {
		if s.Slices <= 0 || s.MaxFlavors < 1 || !s.Multiplier.IsPositive() {
			return fmt.Errorf("menu: size %s is malformed", s.ID)
		}
	}
	none := 0
	for _, cr := range c.crusts {
		if cr.Surcharge.IsNegative() {
			return fmt.Errorf("menu: crust %s has negative surcharge", cr.ID)
		}
		if cr.ID == CrustNone {
			if !cr.Surcharge.IsZero() {
				return fmt.Errorf("menu: crust %s must be free", CrustNone)
			}
			none++
		}
	}
	if none != 1 {
		return fmt.Errorf("menu: exactly one %q crust required", CrustNone)
	}
	for _, e := range c.extras {
		if e.Surcharge.IsNegative() {
			return fmt.Errorf("menu: extra %s has negative surcharge", e.ID)
		}
	}
	return nil
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Default returns the Pizzaria Paulistana menu.
func Default() *Catalog {
	sizes := []Size{
		{ID: "pequena", Name: "Pequena", Slices: 4, MaxFlavors: 1, Multiplier: money("0.7")},
		{ID: "media", Name: "Média", Slices: 6, MaxFlavors: 2, Multiplier: money("1")},
		{ID: "grande", Name: "Grande", Slices: 8, MaxFlavors: 2, Multiplier: money("1.3")},
		{ID: "familia", Name: "Família", Slices: 12, MaxFlavors: 4, Multiplier: money("1.6")},
	}
	crusts := []Crust{
		{ID: CrustNone, Name: "Sem borda recheada", Surcharge: decimal.Zero},
		{ID: "catupiry", Name: "Borda de Catupiry", Surcharge: money("8")},
		{ID: "cheddar", Name: "Borda de Cheddar", Surcharge: money("8")},
		{ID: "chocolate", Name: "Borda de Chocolate", Surcharge: money("10")},
	}
	extras := []Extra{
		{ID: "bacon", Name: "Bacon Extra", Surcharge: money("5")},
		{ID: "queijo", Name: "Queijo Extra", Surcharge: money("4")},
		{ID: "cebola", Name: "Cebola Caramelizada", Surcharge: money("3")},
		{ID: "azeitona", Name: "Azeitonas Extra", Surcharge: money("3")},
		{ID: "oregano", Name: "Orégano Extra", Surcharge: money("2")},
	}
	items := []Item{
		{ID: "paulistana", Name: "Paulistana Tradicional", Description: "Mussarela especial, tomate fresco e manjericão", Price: money("45"), Category: CategoryPizza, Featured: true},
		{ID: "chef", Name: "Pizza da Chef", Description: "Pepperoni artesanal, queijo meia-cura e toque de mel picante", Price: money("55"), Category: CategoryPizza, Featured: true},
		{ID: "calabresa", Name: "Calabresa Premium", Description: "Calabresa paulista fatiada na hora com cebola caramelizada", Price: money("48"), Category: CategoryPizza, Featured: true},
		{ID: "quattro", Name: "Quatro Queijos Supreme", Description: "Gorgonzola, catupiry original, parmesão e muçarela", Price: money("52"), Category: CategoryPizza, Featured: true},
		{ID: "margherita", Name: "Margherita", Description: "Molho de tomate, mussarela, tomate e manjericão fresco", Price: money("42"), Category: CategoryPizza},
		{ID: "pepperoni", Name: "Pepperoni", Description: "Mussarela e pepperoni artesanal", Price: money("50"), Category: CategoryPizza},
		{ID: "portuguesa", Name: "Portuguesa", Description: "Presunto, ovos, cebola, azeitona, ervilha e mussarela", Price: money("48"), Category: CategoryPizza},
		{ID: "frango-catupiry", Name: "Frango com Catupiry", Description: "Frango desfiado com catupiry original", Price: money("50"), Category: CategoryPizza},
		{ID: "coca-lata", Name: "Coca-Cola Lata", Description: "350ml", Price: money("6"), Category: CategoryBeverage},
		{ID: "coca-2l", Name: "Coca-Cola 2L", Description: "Garrafa 2 litros", Price: money("14"), Category: CategoryBeverage},
		{ID: "guarana-lata", Name: "Guaraná Antarctica Lata", Description: "350ml", Price: money("5"), Category: CategoryBeverage},
		{ID: "agua", Name: "Água Mineral", Description: "500ml com ou sem gás", Price: money("4"), Category: CategoryBeverage},
		{ID: "suco-laranja", Name: "Suco de Laranja", Description: "Natural 300ml", Price: money("8"), Category: CategoryBeverage},
		{ID: "pizza-chocolate", Name: "Pizza de Chocolate Cremoso", Description: "Chocolate ao leite derretido com morango", Price: money("38"), Category: CategoryDessert, Featured: true},
		{ID: "petit-gateau", Name: "Petit Gâteau", Description: "Bolinho de chocolate com sorvete de creme", Price: money("22"), Category: CategoryDessert},
		{ID: "tiramisu", Name: "Tiramisù", Description: "Tradicional italiano", Price: money("18"), Category: CategoryDessert},
	}
	c, err := NewCatalog(items, sizes, crusts, extras)
	if err != nil {
		panic(err)
	}
	return c
}

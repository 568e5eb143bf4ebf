package menu

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPizza    Category = "pizza"
	CategoryBeverage Category = "beverage"
	CategoryDessert  Category = "dessert"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPizza, CategoryBeverage, CategoryDessert:
		return true
	}
	return false
}

// Item is an immutable catalog entry.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Featured    bool            `json:"featured,omitempty"`
}

func (i Item) Customizable() bool { return i.Category == CategoryPizza }

type Size struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Slices     int             `json:"slices"`
	MaxFlavors int             `json:"max_flavors"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type Crust struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

type Extra struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

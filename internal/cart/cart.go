package cart

import (
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/google/uuid"
)

// Cart belongs to one browsing session. Line ids are local to the cart.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []Line{}}
}

func (c *Cart) Add(l Line) (Line, error) {
	if l.Quantity < 1 {
		return Line{}, apperr.Validation("cart.Add", "quantity must be at least 1")
	}
	if l.UnitPrice.IsNegative() {
		return Line{}, apperr.Validation("cart.Add", "unit price must not be negative")
	}
	l.ID = l.Item.ID + "-" + uuid.NewString()
	c.Lines = append(c.Lines, l)
	c.touch()
	return l, nil
}

func (c *Cart) Line(id string) (Line, error) {
	i := c.index(id)
	if i < 0 {
		return Line{}, apperr.NotFound("cart.Line", "cart line %q not found", id)
	}
	return c.Lines[i], nil
}

// UpdateQuantity rescales the line from its stored unit price; a quantity of
// zero or below removes the line.
func (c *Cart) UpdateQuantity(id string, qty int) error {
	i := c.index(id)
	if i < 0 {
		return apperr.NotFound("cart.UpdateQuantity", "cart line %q not found", id)
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	c.Lines[i].Quantity = qty
	c.touch()
	return nil
}

func (c *Cart) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return apperr.NotFound("cart.Remove", "cart line %q not found", id)
	}
	c.removeAt(i)
	return nil
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.touch()
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

func (c *Cart) Totals() pricing.Totals { return pricing.CartTotals(c.Lines) }

// Snapshot copies the lines so later cart edits cannot reach an order.
func (c *Cart) Snapshot() []Line {
	out := make([]Line, len(c.Lines))
	copy(out, c.Lines)
	return out
}

func (c *Cart) index(id string) int {
	for i, l := range c.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.touch()
}

func (c *Cart) touch() { c.UpdatedAt = time.Now().UTC() }

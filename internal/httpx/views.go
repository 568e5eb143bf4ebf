package httpx

import (
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/ariefcatur/go-pizzaria-orders/internal/feedback"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
)

// Amounts leave the API as fixed two-decimal strings.

type lineView struct {
	ID        string          `json:"id"`
	Kind      cart.LineKind   `json:"kind"`
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice string          `json:"unit_price"`
	LineTotal string          `json:"line_total"`
	Pizza     *cart.PizzaSpec `json:"pizza,omitempty"`
}

type cartView struct {
	SessionID string     `json:"session_id"`
	Lines     []lineView `json:"lines"`
	Subtotal  string     `json:"subtotal"`
	ItemCount int        `json:"item_count"`
}

type orderView struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Items         []lineView `json:"items"`
	Subtotal      string     `json:"subtotal"`
	DeliveryFee   string     `json:"delivery_fee"`
	Total         string     `json:"total"`
	DeliveryMode  string     `json:"delivery_mode"`
	Address       string     `json:"address,omitempty"`
	PaymentMethod string     `json:"payment_method"`
	PaymentLabel  string     `json:"payment_label"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	Step          int        `json:"step"`
	NextAction    string     `json:"next_action,omitempty"`
	EstimatedTime string     `json:"estimated_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type feedbackListView struct {
	Feedbacks []feedback.Feedback `json:"feedbacks"`
	Count     int                 `json:"count"`
	Average   string              `json:"average"`
}

func toLineViews(lines []cart.Line) []lineView {
	out := make([]lineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineView{
			ID:        l.ID,
			Kind:      l.Kind,
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			Quantity:  l.Quantity,
			UnitPrice: pricing.Display(l.UnitPrice),
			LineTotal: pricing.Display(l.LineTotal()),
			Pizza:     l.Pizza,
		})
	}
	return out
}

func toCartView(c *cart.Cart) cartView {
	t := c.Totals()
	return cartView{
		SessionID: c.SessionID,
		Lines:     toLineViews(c.Lines),
		Subtotal:  pricing.Display(t.Subtotal),
		ItemCount: t.ItemCount,
	}
}

func toOrderView(o orders.Order) orderView {
	return orderView{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Items:         toLineViews(o.Items),
		Subtotal:      pricing.Display(o.Subtotal),
		DeliveryFee:   pricing.Display(o.DeliveryFee),
		Total:         pricing.Display(o.Total),
		DeliveryMode:  string(o.DeliveryMode),
		Address:       o.Address,
		PaymentMethod: string(o.PaymentMethod),
		PaymentLabel:  o.PaymentMethod.Label(),
		Status:        string(o.Status),
		StatusLabel:   o.Status.Label(),
		Step:          o.Status.Step(),
		NextAction:    o.Status.NextActionLabel(),
		EstimatedTime: o.EstimatedTime,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderViews(list []orders.Order) []orderView {
	out := make([]orderView, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderView(o))
	}
	return out
}

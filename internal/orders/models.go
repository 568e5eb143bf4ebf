package orders

import (
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/shopspring/decimal"
)

type DeliveryMode = pricing.DeliveryMode

const (
	ModeDelivery = pricing.ModeDelivery
	ModePickup   = pricing.ModePickup
)

type PaymentMethod string

const (
	PaymentPix     PaymentMethod = "pix"
	PaymentCredit  PaymentMethod = "credit"
	PaymentDebit   PaymentMethod = "debit"
	PaymentCash    PaymentMethod = "cash"
	PaymentVoucher PaymentMethod = "voucher"
)

var PaymentMethods = []PaymentMethod{PaymentPix, PaymentCredit, PaymentDebit, PaymentCash, PaymentVoucher}

func (p PaymentMethod) Valid() bool { return p.Label() != "" }

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentPix:
		return "Pix"
	case PaymentCredit:
		return "Cartão de Crédito"
	case PaymentDebit:
		return "Cartão de Débito"
	case PaymentCash:
		return "Dinheiro"
	case PaymentVoucher:
		return "Vale Refeição"
	default:
		return ""
	}
}

// Order items and amounts are fixed at creation; only Status (and UpdatedAt)
// change afterwards.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Items         []cart.Line     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	DeliveryMode  DeliveryMode    `json:"delivery_mode"`
	Address       string          `json:"address,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        Status          `json:"status"`
	EstimatedTime string          `json:"estimated_time"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewOrder is what checkout submits. There is no status field: new orders
// always start pending.
type NewOrder struct {
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Lines         []cart.Line
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	DeliveryMode  DeliveryMode
	Address       string
	PaymentMethod PaymentMethod
}

// Filter selects orders for the staff panel; the zero value means all.
type Filter struct {
	Status Status
}

func (f Filter) Match(o Order) bool {
	return f.Status == "" || o.Status == f.Status
}

type Dashboard struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
}

func CountByStatus(orders []Order, s Status) int {
	n := 0
	for _, o := range orders {
		if o.Status == s {
			n++
		}
	}
	return n
}

func Summarize(orders []Order) Dashboard {
	return Dashboard{
		Total:     len(orders),
		Pending:   CountByStatus(orders, StatusPending),
		Preparing: CountByStatus(orders, StatusPreparing),
		Ready:     CountByStatus(orders, StatusReady),
	}
}

package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Request struct {
	SessionID      string               `json:"-"`
	IdempotencyKey string               `json:"-"`
	Name           string               `json:"name"`
	Phone          string               `json:"phone"`
	DeliveryMode   orders.DeliveryMode  `json:"delivery_mode"`
	Address        string               `json:"address"`
	PaymentMethod  orders.PaymentMethod `json:"payment_method"`
}

// Idempotency remembers which order a checkout key produced.
type Idempotency interface {
	// Claim reserves key. When another checkout holds it, claimed is false and
	// orderID is the order it produced, or empty while that checkout runs.
	Claim(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Remember(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}

type Service struct {
	Carts       cart.Store
	Orders      *orders.Manager
	Keys        Idempotency
	DeliveryFee decimal.Decimal
	Log         *zap.Logger
}

// Submit turns the session cart into an order. The cart is only cleared once
// the order exists; any failure before that leaves it as it was.
func (s *Service) Submit(ctx context.Context, who identity.Identity, req Request) (orders.Order, error) {
	const op = "checkout.Submit"
	if who.CustomerID == "" {
		return orders.Order{}, apperr.Validation(op, "customer identity is required")
	}

	if req.IdempotencyKey == "" || s.Keys == nil {
		return s.place(ctx, who, req)
	}

	key := who.CustomerID + ":" + req.IdempotencyKey
	id, claimed, err := s.Keys.Claim(ctx, key)
	if err != nil {
		return orders.Order{}, apperr.Upstream(op, err)
	}
	if !claimed {
		if id == "" {
			return orders.Order{}, &apperr.Error{
				Kind: apperr.KindUpstream, Op: op, Message: "checkout already in progress", Retryable: true,
			}
		}
		return s.Orders.Get(ctx, id)
	}

	o, err := s.place(ctx, who, req)
	if err != nil {
		if rerr := s.Keys.Release(context.WithoutCancel(ctx), key); rerr != nil {
			s.logger().Warn("release idempotency key failed", zap.Error(rerr))
		}
		return orders.Order{}, err
	}
	if err := s.Keys.Remember(ctx, key, o.ID); err != nil {
		s.logger().Warn("remember idempotency key failed",
			zap.String("order_id", o.ID), zap.Error(err))
	}
	return o, nil
}

func (s *Service) place(ctx context.Context, who identity.Identity, req Request) (orders.Order, error) {
	const op = "checkout.Submit"
	if strings.TrimSpace(req.SessionID) == "" {
		return orders.Order{}, apperr.Validation(op, "cart session is required")
	}
	c, err := s.Carts.Load(ctx, req.SessionID)
	if err != nil {
		return orders.Order{}, apperr.Upstream(op, err)
	}
	if c.Empty() {
		return orders.Order{}, apperr.Validation(op, "cart is empty")
	}

	name := firstNonBlank(req.Name, who.Name)
	phone := firstNonBlank(req.Phone, who.Phone)
	if name == "" {
		return orders.Order{}, apperr.Validation(op, "name is required")
	}
	if phone == "" {
		return orders.Order{}, apperr.Validation(op, "phone is required")
	}
	if !req.DeliveryMode.Valid() {
		return orders.Order{}, apperr.Validation(op, "unknown delivery mode %q", req.DeliveryMode)
	}

	lines := c.Snapshot()
	subtotal := pricing.CartTotals(lines).Subtotal
	fee := pricing.FeeFor(req.DeliveryMode, s.DeliveryFee)
	o, err := s.Orders.Create(ctx, orders.NewOrder{
		CustomerID:    who.CustomerID,
		CustomerName:  name,
		CustomerPhone: phone,
		Lines:         lines,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         pricing.OrderTotal(subtotal, req.DeliveryMode, s.DeliveryFee),
		DeliveryMode:  req.DeliveryMode,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return orders.Order{}, err
	}

	if err := s.Carts.Delete(ctx, req.SessionID); err != nil {
		s.logger().Warn("clear cart after checkout failed",
			zap.String("session_id", req.SessionID), zap.String("order_id", o.ID), zap.Error(err))
	}
	return o, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type MemoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{keys: make(map[string]string)}
}

func (m *MemoryIdempotency) Claim(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.keys[key]; ok {
		return id, false, nil
	}
	m.keys[key] = ""
	return "", true, nil
}

func (m *MemoryIdempotency) Remember(_ context.Context, key, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = orderID
	return nil
}

func (m *MemoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

package orders

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ManagerConfig struct {
	Timeout       time.Duration
	EstimatedTime string
	Logger        *zap.Logger
	Now           func() time.Time
}

// Manager owns the order lifecycle. Writes go to the Store first; the local
// View and the change feed only see a change once the store accepted it.
type Manager struct {
	store Store
	pub   Publisher
	view  *View
	cfg   ManagerConfig
	log   *zap.Logger

	loaded atomic.Bool
}

func NewManager(store Store, pub Publisher, cfg ManagerConfig) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.EstimatedTime == "" {
		cfg.EstimatedTime = "30-45 min"
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, pub: pub, view: NewView(), cfg: cfg, log: log}
}

func (m *Manager) View() *View { return m.view }

func (m *Manager) Create(ctx context.Context, in NewOrder) (Order, error) {
	const op = "orders.Create"
	if strings.TrimSpace(in.CustomerID) == "" {
		return Order{}, apperr.Validation(op, "customer identity is required")
	}
	if len(in.Lines) == 0 {
		return Order{}, apperr.Validation(op, "order has no items")
	}
	if !in.DeliveryMode.Valid() {
		return Order{}, apperr.Validation(op, "unknown delivery mode %q", in.DeliveryMode)
	}
	address := strings.TrimSpace(in.Address)
	if in.DeliveryMode == ModeDelivery && address == "" {
		return Order{}, apperr.Validation(op, "address is required for delivery")
	}
	if in.DeliveryMode == ModePickup {
		address = ""
	}
	if !in.PaymentMethod.Valid() {
		return Order{}, apperr.Validation(op, "unknown payment method %q", in.PaymentMethod)
	}
	if in.Total.IsNegative() || in.Subtotal.IsNegative() || in.DeliveryFee.IsNegative() {
		return Order{}, apperr.Validation(op, "amounts must not be negative")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Order{}, apperr.Upstream(op, err)
	}
	now := m.cfg.Now()
	o := Order{
		ID:            id.String(),
		CustomerID:    in.CustomerID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Items:         append(in.Lines[:0:0], in.Lines...),
		Subtotal:      in.Subtotal,
		DeliveryFee:   in.DeliveryFee,
		Total:         in.Total,
		DeliveryMode:  in.DeliveryMode,
		Address:       address,
		PaymentMethod: in.PaymentMethod,
		Status:        StatusPending,
		EstimatedTime: m.cfg.EstimatedTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	cctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	if err := m.store.Create(cctx, o); err != nil {
		return Order{}, apperr.Upstream(op, err)
	}

	m.record(ctx, Inserted, o)
	m.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.String("total", o.Total.StringFixed(2)),
	)
	return o, nil
}

// Advance moves an order to the target status if the transition table allows it.
func (m *Manager) Advance(ctx context.Context, id string, to Status) (Order, error) {
	const op = "orders.Advance"
	if !to.Valid() {
		return Order{}, apperr.Validation(op, "unknown status %q", to)
	}

	cur, err := m.load(ctx, op, id)
	if err != nil {
		return Order{}, err
	}
	if cur.Status.Terminal() {
		return Order{}, apperr.InvalidTransition(op, "order %s is already %s", id, cur.Status)
	}
	if !CanTransition(cur.Status, to) {
		return Order{}, apperr.InvalidTransition(op, "cannot move order %s from %s to %s", id, cur.Status, to)
	}

	cctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	updated, err := m.store.UpdateStatus(cctx, id, cur.Status, to, m.cfg.Now())
	switch {
	case errors.Is(err, ErrStatusConflict):
		return Order{}, apperr.InvalidTransition(op, "order %s changed status concurrently", id)
	case errors.Is(err, ErrNotFound):
		return Order{}, apperr.NotFound(op, "order %s not found", id)
	case err != nil:
		return Order{}, apperr.Upstream(op, err)
	}

	m.record(ctx, Updated, updated)
	m.log.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(to)),
	)
	return updated, nil
}

// AdvanceNext moves an order one step along the lifecycle.
func (m *Manager) AdvanceNext(ctx context.Context, id string) (Order, error) {
	const op = "orders.AdvanceNext"
	cur, err := m.load(ctx, op, id)
	if err != nil {
		return Order{}, err
	}
	next, ok := cur.Status.Next()
	if !ok {
		return Order{}, apperr.InvalidTransition(op, "order %s is already %s", id, cur.Status)
	}
	return m.Advance(ctx, id, next)
}

func (m *Manager) Cancel(ctx context.Context, id string) (Order, error) {
	return m.Advance(ctx, id, StatusCancelled)
}

// Remove deletes an order outright.
func (m *Manager) Remove(ctx context.Context, id string) error {
	const op = "orders.Remove"
	cctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	err := m.store.Delete(cctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound(op, "order %s not found", id)
	case err != nil:
		return apperr.Upstream(op, err)
	}
	m.record(ctx, Deleted, Order{ID: id, UpdatedAt: m.cfg.Now()})
	m.log.Info("order removed", zap.String("order_id", id))
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (Order, error) {
	if o, ok := m.view.Get(id); ok {
		return o, nil
	}
	o, err := m.load(ctx, "orders.Get", id)
	if err != nil {
		return Order{}, err
	}
	m.view.Apply(Event{Type: Updated, Order: o})
	return o, nil
}

// ForCustomer lists the customer's orders, newest first.
func (m *Manager) ForCustomer(ctx context.Context, customerID string) ([]Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, apperr.Validation("orders.ForCustomer", "customer identity is required")
	}
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return m.view.Select(func(o Order) bool { return o.CustomerID == customerID }), nil
}

func (m *Manager) ForStaff(ctx context.Context, f Filter) ([]Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("orders.ForStaff", "unknown status %q", f.Status)
	}
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return m.view.Select(f.Match), nil
}

func (m *Manager) Dashboard(ctx context.Context) (Dashboard, error) {
	all, err := m.ForStaff(ctx, Filter{})
	if err != nil {
		return Dashboard{}, err
	}
	return Summarize(all), nil
}

// Load replaces the view with the store's current listing.
func (m *Manager) Load(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	all, err := m.store.List(cctx)
	if err != nil {
		return apperr.Upstream("orders.Load", err)
	}
	m.view.Replace(all)
	m.loaded.Store(true)
	return nil
}

// Apply folds a change notification into the local view.
func (m *Manager) Apply(ev Event) bool {
	return m.view.Apply(ev)
}

// Follow applies events until ctx is done or the channel closes.
func (m *Manager) Follow(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.Apply(ev)
		}
	}
}

func (m *Manager) ensureLoaded(ctx context.Context) error {
	if m.loaded.Load() {
		return nil
	}
	return m.Load(ctx)
}

func (m *Manager) load(ctx context.Context, op, id string) (Order, error) {
	cctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	o, err := m.store.Get(cctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return Order{}, apperr.NotFound(op, "order %s not found", id)
	case err != nil:
		return Order{}, apperr.Upstream(op, err)
	}
	return o, nil
}

// record applies a persisted change locally and publishes it. Feed failures
// are logged, not returned.
func (m *Manager) record(ctx context.Context, t EventType, o Order) {
	ev := Event{ID: uuid.NewString(), Type: t, Order: o, OccurredAt: m.cfg.Now()}
	m.view.Apply(ev)
	if m.pub == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.Timeout)
	defer cancel()
	if err := m.pub.Publish(pctx, ev); err != nil {
		m.log.Warn("publish order event failed",
			zap.String("order_id", o.ID),
			zap.String("event_type", string(t)),
			zap.Error(err),
		)
	}
}

package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/redisx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusCache is the fast path for order status lookups.
type StatusCache interface {
	Get(ctx context.Context, orderID string) (redisx.CachedStatus, bool, error)
	Set(ctx context.Context, orderID string, s redisx.CachedStatus) (bool, error)
}

type OrdersHandler struct {
	Orders  *orders.Manager
	Cache   StatusCache
	Timeout time.Duration
	Log     *zap.Logger
}

type statusResp struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Label     string    `json:"label"`
	Step      int       `json:"step"`
	UpdatedAt time.Time `json:"updated_at"`
	Cached    bool      `json:"cached"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireCustomerOrStaff)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getStatus)
	})
	r.With(RequireCustomer).Get("/me/orders", h.myOrders)
}

// RequireCustomerOrStaff lets through any identified caller.
func RequireCustomerOrStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !identity.FromContext(r.Context()).Authenticated() {
			writeMessage(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	o, ok := h.visible(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	who := identity.FromContext(r.Context())
	if h.Cache != nil {
		if s, ok, err := h.Cache.Get(ctx, orderID); err == nil && ok && (who.Staff || s.CustomerID == who.CustomerID) {
			writeJSON(w, http.StatusOK, statusResp{
				OrderID: orderID, Status: string(s.Status), Label: s.Status.Label(),
				Step: s.Status.Step(), UpdatedAt: s.UpdatedAt, Cached: true,
			})
			return
		}
	}

	o, ok := h.visible(ctx, w, r)
	if !ok {
		return
	}
	if h.Cache != nil {
		cs := redisx.CachedStatus{CustomerID: o.CustomerID, Status: o.Status, UpdatedAt: o.UpdatedAt}
		if _, err := h.Cache.Set(ctx, o.ID, cs); err != nil && h.Log != nil {
			h.Log.Warn("status cache write failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, statusResp{
		OrderID: o.ID, Status: string(o.Status), Label: o.Status.Label(),
		Step: o.Status.Step(), UpdatedAt: o.UpdatedAt,
	})
}

func (h *OrdersHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	list, err := h.Orders.ForCustomer(ctx, identity.FromContext(r.Context()).CustomerID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderViews(list))
}

// visible loads the order and hides orders owned by someone else.
func (h *OrdersHandler) visible(ctx context.Context, w http.ResponseWriter, r *http.Request) (orders.Order, bool) {
	orderID := chi.URLParam(r, "id")
	o, err := h.Orders.Get(ctx, orderID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return orders.Order{}, false
	}
	who := identity.FromContext(r.Context())
	if !who.Staff && o.CustomerID != who.CustomerID {
		writeMessage(w, http.StatusNotFound, "order not found")
		return orders.Order{}, false
	}
	return o, true
}

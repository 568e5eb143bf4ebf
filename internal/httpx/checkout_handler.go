package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/checkout"
	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Service *checkout.Service
	Timeout time.Duration
	Log     *zap.Logger
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.With(RequireCustomer).Post("/checkout", h.submit)
}

func (h *CheckoutHandler) submit(w http.ResponseWriter, r *http.Request) {
	// clients may echo order fields such as status; the order always starts pending
	var req checkout.Request
	if err := decodeJSONLenient(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	req.SessionID = strings.TrimSpace(r.Header.Get(HeaderSession))
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	o, err := h.Service.Submit(ctx, identity.FromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(o))
}

package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StaffHandler struct {
	Orders  *orders.Manager
	Timeout time.Duration
	Log     *zap.Logger
}

type setStatusReq struct {
	Status string `json:"status"`
}

func (h *StaffHandler) Register(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Use(RequireStaff)
		r.Get("/orders", h.list)
		r.Get("/dashboard", h.dashboard)
		r.Post("/orders/{id}/advance", h.advance)
		r.Patch("/orders/{id}/status", h.setStatus)
		r.Post("/orders/{id}/cancel", h.cancel)
		r.Delete("/orders/{id}", h.remove)
	})
}

func (h *StaffHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	f := orders.Filter{}
	if s := r.URL.Query().Get("status"); s != "" && s != "all" {
		st, err := orders.ParseStatus(s)
		if err != nil {
			writeError(w, r, h.Log, err)
			return
		}
		f.Status = st
	}
	list, err := h.Orders.ForStaff(ctx, f)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderViews(list))
}

func (h *StaffHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	d, err := h.Orders.Dashboard(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *StaffHandler) advance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	o, err := h.Orders.AdvanceNext(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func (h *StaffHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	to, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	o, err := h.Orders.Advance(ctx, chi.URLParam(r, "id"), to)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func (h *StaffHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	o, err := h.Orders.Cancel(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func (h *StaffHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	if err := h.Orders.Remove(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

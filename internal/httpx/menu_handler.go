package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type MenuHandler struct {
	Catalog       menu.Provider
	DeliveryFee   decimal.Decimal
	EstimatedTime string
}

func (h *MenuHandler) Register(r chi.Router) {
	r.Get("/menu", h.menu)
	r.Get("/menu/items", h.items)
	r.Get("/menu/options", h.options)
}

func (h *MenuHandler) menu(w http.ResponseWriter, r *http.Request) {
	c := h.Catalog.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"featured":  c.Featured(),
		"pizzas":    c.Items(menu.CategoryPizza),
		"beverages": c.Items(menu.CategoryBeverage),
		"desserts":  c.Items(menu.CategoryDessert),
	})
}

func (h *MenuHandler) items(w http.ResponseWriter, r *http.Request) {
	cat := menu.Category(r.URL.Query().Get("category"))
	if cat != "" && !cat.Valid() {
		writeMessage(w, http.StatusBadRequest, "unknown category")
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.Catalog().Items(cat))
}

func (h *MenuHandler) options(w http.ResponseWriter, r *http.Request) {
	c := h.Catalog.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"sizes":          c.Sizes(),
		"crusts":         c.Crusts(),
		"extras":         c.Extras(),
		"delivery_fee":   pricing.Display(h.DeliveryFee),
		"estimated_time": h.EstimatedTime,
	})
}

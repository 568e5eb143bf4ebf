package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const HeaderSession = "X-Session-Id"

type CartHandler struct {
	Carts   cart.Store
	Catalog menu.Provider
	Timeout time.Duration
	Log     *zap.Logger
}

type addItemReq struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type addPizzaReq struct {
	PizzaID     string   `json:"pizza_id"`
	Size        string   `json:"size"`
	Flavors     []string `json:"flavors"`
	Crust       string   `json:"crust"`
	Extras      []string `json:"extras"`
	Observation string   `json:"observation"`
	Quantity    int      `json:"quantity"`
}

type updateLineReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.clear)
		r.Post("/items", h.addItem)
		r.Post("/pizzas", h.addPizza)
		r.Patch("/items/{lineID}", h.updateLine)
		r.Delete("/items/{lineID}", h.removeLine)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, nil)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	h.mutate(w, r, http.StatusCreated, func(c *cart.Cart) error {
		it, err := h.Catalog.Catalog().Item(req.ItemID)
		if err != nil {
			return err
		}
		l, err := cart.Simple(it, req.Quantity)
		if err != nil {
			return err
		}
		_, err = c.Add(l)
		return err
	})
}

func (h *CartHandler) addPizza(w http.ResponseWriter, r *http.Request) {
	var req addPizzaReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	h.mutate(w, r, http.StatusCreated, func(c *cart.Cart) error {
		l, err := configurePizza(h.Catalog.Catalog(), req)
		if err != nil {
			return err
		}
		_, err = c.Add(l)
		return err
	})
}

func configurePizza(catalog *menu.Catalog, req addPizzaReq) (cart.Line, error) {
	cfg, err := cart.NewConfigurator(catalog, req.PizzaID)
	if err != nil {
		return cart.Line{}, err
	}
	if req.Size != "" {
		if err := cfg.SetSize(req.Size); err != nil {
			return cart.Line{}, err
		}
	}
	if len(req.Flavors) > 0 {
		if err := cfg.SetFlavors(req.Flavors); err != nil {
			return cart.Line{}, err
		}
	}
	if err := cfg.SetCrust(req.Crust); err != nil {
		return cart.Line{}, err
	}
	if err := cfg.SetExtras(req.Extras); err != nil {
		return cart.Line{}, err
	}
	cfg.SetObservation(strings.TrimSpace(req.Observation))
	return cfg.Line(req.Quantity)
}

func (h *CartHandler) updateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	lineID := chi.URLParam(r, "lineID")
	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		return c.UpdateQuantity(lineID, req.Quantity)
	})
}

func (h *CartHandler) removeLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")
	h.mutate(w, r, http.StatusOK, func(c *cart.Cart) error {
		return c.Remove(lineID)
	})
}

// mutate loads the session cart, applies fn and saves it. A nil fn only reads.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, code int, fn func(*cart.Cart) error) {
	session := strings.TrimSpace(r.Header.Get(HeaderSession))
	if session == "" {
		writeMessage(w, http.StatusBadRequest, "missing "+HeaderSession+" header")
		return
	}

	ctx, cancel := withTimeout(r, h.Timeout)
	defer cancel()

	c, err := h.Carts.Load(ctx, session)
	if err != nil {
		writeError(w, r, h.Log, apperr.Upstream("cart.Load", err))
		return
	}
	if fn != nil {
		if err := fn(c); err != nil {
			writeError(w, r, h.Log, err)
			return
		}
		if err := h.Carts.Save(ctx, c); err != nil {
			writeError(w, r, h.Log, apperr.Upstream("cart.Save", err))
			return
		}
	}
	writeJSON(w, code, toCartView(c))
}

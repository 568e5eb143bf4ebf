package httpx

import (
	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
	"github.com/go-chi/chi/v5"
)

// API groups the storefront and staff handlers behind identity resolution.
type API struct {
	Identity identity.Provider
	Menu     *MenuHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Staff    *StaffHandler
	Feedback *FeedbackHandler
}

func (a *API) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(Identify(a.Identity))
		a.Menu.Register(r)
		a.Cart.Register(r)
		a.Checkout.Register(r)
		a.Orders.Register(r)
		a.Staff.Register(r)
		a.Feedback.Register(r)
	})
}

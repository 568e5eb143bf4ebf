package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
)

// Identify resolves the caller once per request and stores it in the context.
func Identify(p identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := p.Identify(r)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity.FromContext(r.Context()).CustomerID == "" {
			writeMessage(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity.FromContext(r.Context())
		switch {
		case id.Staff:
			next.ServeHTTP(w, r)
		case id.Authenticated():
			writeMessage(w, http.StatusForbidden, "staff only")
		default:
			writeMessage(w, http.StatusUnauthorized, "sign in required")
		}
	})
}

package identity

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

const (
	HeaderCustomerID    = "X-Customer-Id"
	HeaderCustomerName  = "X-Customer-Name"
	HeaderCustomerPhone = "X-Customer-Phone"
)

type Identity struct {
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Staff      bool   `json:"staff"`
}

func (i Identity) Authenticated() bool { return i.CustomerID != "" || i.Staff }

// Provider resolves who is making a request. Session issuance happens
// upstream; providers only read what the gateway forwards.
type Provider interface {
	Identify(r *http.Request) (Identity, error)
}

type HeaderProvider struct {
	StaffKey string
}

func (p HeaderProvider) Identify(r *http.Request) (Identity, error) {
	id := Identity{
		CustomerID: strings.TrimSpace(r.Header.Get(HeaderCustomerID)),
		Name:       strings.TrimSpace(r.Header.Get(HeaderCustomerName)),
		Phone:      strings.TrimSpace(r.Header.Get(HeaderCustomerPhone)),
	}
	if p.StaffKey != "" {
		token, ok := bearer(r.Header.Get("Authorization"))
		id.Staff = ok && subtle.ConstantTimeCompare([]byte(token), []byte(p.StaffKey)) == 1
	}
	return id, nil
}

func bearer(h string) (string, bool) {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

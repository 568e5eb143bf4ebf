package orders

import (
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Lifecycle is the forward chain every order walks, in order.
var Lifecycle = []Status{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// AllStatuses lists every status, lifecycle first.
var AllStatuses = append(append([]Status(nil), Lifecycle...), StatusCancelled)

var validNext = map[Status]map[Status]bool{
	StatusPending:        {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:      {StatusReady: true, StatusCancelled: true},
	StatusReady:          {StatusOutForDelivery: true, StatusCancelled: true},
	StatusOutForDelivery: {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", apperr.Validation("orders.ParseStatus", "unknown status %q", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

// Next is the successor along the lifecycle chain; terminal states have none.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusOutForDelivery, true
	case StatusOutForDelivery:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Label is the customer-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Aguardando"
	case StatusPreparing:
		return "Em Preparo"
	case StatusReady:
		return "Pronto"
	case StatusOutForDelivery:
		return "Saiu para Entrega"
	case StatusDelivered:
		return "Entregue"
	case StatusCancelled:
		return "Cancelado"
	default:
		return string(s)
	}
}

// NextActionLabel names the staff button that moves the order forward.
func (s Status) NextActionLabel() string {
	switch s {
	case StatusPending:
		return "Iniciar Preparo"
	case StatusPreparing:
		return "Marcar como Pronto"
	case StatusReady:
		return "Saiu para Entrega"
	case StatusOutForDelivery:
		return "Confirmar Entrega"
	default:
		return ""
	}
}

// Step is the position in Lifecycle, or -1 for cancelled/unknown.
func (s Status) Step() int {
	for i, l := range Lifecycle {
		if l == s {
			return i
		}
	}
	return -1
}

func (s Status) progress() int {
	if s == StatusCancelled {
		return len(Lifecycle)
	}
	return s.Step()
}

// Supersedes reports whether status s stamped at is a later state of an order
// than cur stamped curAt. Lifecycle progress decides first; the timestamps only
// order two writes of the same status.
func Supersedes(s Status, at time.Time, cur Status, curAt time.Time) bool {
	if p, q := s.progress(), cur.progress(); p != q {
		return p > q
	}
	return at.After(curAt)
}

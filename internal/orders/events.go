package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderInserted = "OrderInserted"
	EventOrderUpdated  = "OrderUpdated"
	EventOrderDeleted  = "OrderDeleted"
)

// Envelope is the wire format on the change feed.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderChangedPayload struct {
	Order Order `json:"order"`
}

type EventType string

const (
	Inserted EventType = "inserted"
	Updated  EventType = "updated"
	Deleted  EventType = "deleted"
)

// Event is one change to the orders collection. For Deleted only Order.ID
// and Order.UpdatedAt are meaningful.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Order      Order     `json:"order"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (t EventType) WireName() string {
	switch t {
	case Inserted:
		return EventOrderInserted
	case Updated:
		return EventOrderUpdated
	case Deleted:
		return EventOrderDeleted
	default:
		return ""
	}
}

func EventTypeFromWire(name string) (EventType, bool) {
	switch name {
	case EventOrderInserted:
		return Inserted, true
	case EventOrderUpdated:
		return Updated, true
	case EventOrderDeleted:
		return Deleted, true
	default:
		return "", false
	}
}

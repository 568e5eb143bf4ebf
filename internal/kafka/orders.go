package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"

	orderEventVersion = 1
)

var ErrUnknownEvent = errors.New("unknown event type")

type enqueuer interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

// OrderPublisher puts order changes on the change feed topic.
type OrderPublisher struct {
	Producer enqueuer
	Service  string
}

func (p *OrderPublisher) Publish(ctx context.Context, ev orders.Event) error {
	name := ev.Type.WireName()
	if name == "" {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	env := orders.Envelope{
		EventID:       ev.ID,
		EventType:     name,
		EventVersion:  orderEventVersion,
		OccurredAt:    ev.OccurredAt,
		Producer:      p.Service,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: ev.Order.ID,
		Payload:       MustMarshal(orders.OrderChangedPayload{Order: ev.Order}),
	}
	return p.Producer.Publish(ctx, orders.PartitionKey(ev.Order.ID), MustMarshal(env),
		kafka.Header{Key: HeaderEventType, Value: []byte(name)},
		kafka.Header{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(orderEventVersion))},
	)
}

// DecodeOrderEvent turns a change feed message back into an order event.
// Messages with an unrecognised event type return ErrUnknownEvent.
func DecodeOrderEvent(m kafka.Message) (orders.Event, error) {
	env, err := DecodeEnvelope(m.Value)
	if err != nil {
		return orders.Event{}, err
	}
	t, ok := orders.EventTypeFromWire(env.EventType)
	if !ok {
		return orders.Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.EventType)
	}
	p, err := UnwrapPayload[orders.OrderChangedPayload](env.Payload)
	if err != nil {
		return orders.Event{}, err
	}
	if p.Order.ID == "" {
		p.Order.ID = env.CorrelationID
	}
	return orders.Event{ID: env.EventID, Type: t, Order: p.Order, OccurredAt: env.OccurredAt}, nil
}

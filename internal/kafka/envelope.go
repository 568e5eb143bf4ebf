package kafka

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
)

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// DecodeEnvelope parses a feed message and rejects envelopes newer than this
// build understands.
func DecodeEnvelope(b []byte) (orders.Envelope, error) {
	var env orders.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventID == "" {
		return env, errors.New("decode envelope: missing event_id")
	}
	if env.EventVersion > orderEventVersion {
		return env, fmt.Errorf("decode envelope: unsupported version %d", env.EventVersion)
	}
	return env, nil
}

// UnwrapPayload decodes an envelope payload into a concrete type.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

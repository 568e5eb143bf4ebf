package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/redis/go-redis/v9"
)

// CartStore keeps each session cart as one JSON value. Every save refreshes
// the TTL, so idle carts expire.
type CartStore struct {
	RDB *redis.Client
	TTL time.Duration
}

func (s *CartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	b, err := s.RDB.Get(ctx, fmt.Sprintf(KeyCart, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	var c cart.Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	c.SessionID = sessionID
	return &c, nil
}

func (s *CartStore) Save(ctx context.Context, c *cart.Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, fmt.Sprintf(KeyCart, c.SessionID), b, s.ttl()).Err()
}

func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(KeyCart, sessionID)).Err()
}

func (s *CartStore) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return TTLCart
}

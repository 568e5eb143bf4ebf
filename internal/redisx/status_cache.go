package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/redis/go-redis/v9"
)

type CachedStatus struct {
	CustomerID string        `json:"customer_id,omitempty"`
	Status     orders.Status `json:"status,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Deleted    bool          `json:"deleted,omitempty"`
}

// StatusCache is the read-through order status cache. Writes keep the entry
// that supersedes the other (orders.Supersedes); a deleted order leaves a
// tombstone that no later write replaces.
type StatusCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func (c *StatusCache) Get(ctx context.Context, orderID string) (CachedStatus, bool, error) {
	b, err := c.RDB.Get(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedStatus{}, false, nil
	}
	if err != nil {
		return CachedStatus{}, false, err
	}
	var s CachedStatus
	if err := json.Unmarshal(b, &s); err != nil {
		return CachedStatus{}, false, err
	}
	if s.Deleted {
		return CachedStatus{}, false, nil
	}
	return s, true, nil
}

// Set reports whether the value was written; stale statuses and writes to a
// tombstoned order are ignored.
func (c *StatusCache) Set(ctx context.Context, orderID string, s CachedStatus) (bool, error) {
	key := fmt.Sprintf(KeyOrderStatus, orderID)
	val, err := json.Marshal(s)
	if err != nil {
		return false, err
	}

	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		written := false
		err = c.RDB.Watch(ctx, func(tx *redis.Tx) error {
			cur, err := tx.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if err == nil {
				var prev CachedStatus
				if json.Unmarshal(cur, &prev) == nil &&
					(prev.Deleted || orders.Supersedes(prev.Status, prev.UpdatedAt, s.Status, s.UpdatedAt)) {
					return nil
				}
			}
			_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				p.Set(ctx, key, val, c.ttl())
				return nil
			})
			written = err == nil
			return err
		}, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return written, err
		}
	}
	return false, err
}

// Tombstone marks the order deleted. It outlives the dedup window so a
// redelivered update cannot bring the entry back.
func (c *StatusCache) Tombstone(ctx context.Context, orderID string, at time.Time) error {
	val, err := json.Marshal(CachedStatus{Deleted: true, UpdatedAt: at})
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, fmt.Sprintf(KeyOrderStatus, orderID), val, TTLStatusTombstone).Err()
}

// Apply folds an order change into the cache.
func (c *StatusCache) Apply(ctx context.Context, ev orders.Event) (bool, error) {
	if ev.Type == orders.Deleted {
		return true, c.Tombstone(ctx, ev.Order.ID, ev.Order.UpdatedAt)
	}
	return c.Set(ctx, ev.Order.ID, CachedStatus{
		CustomerID: ev.Order.CustomerID,
		Status:     ev.Order.Status,
		UpdatedAt:  ev.Order.UpdatedAt,
	})
}

// Publish lets the cache sit behind the order manager as an orders.Publisher.
func (c *StatusCache) Publish(ctx context.Context, ev orders.Event) error {
	_, err := c.Apply(ctx, ev)
	return err
}

func (c *StatusCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return TTLStatusCache
}

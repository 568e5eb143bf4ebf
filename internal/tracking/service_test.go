package tracking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	kafkax "github.com/ariefcatur/go-pizzaria-orders/internal/kafka"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct{ msgs []kafkago.Message }

func (c *captured) Publish(_ context.Context, key, value []byte, headers ...kafkago.Header) error {
	c.msgs = append(c.msgs, kafkago.Message{Key: key, Value: value, Headers: headers})
	return nil
}

func newService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Service{
		Redis:       rdb,
		Cache:       &redisx.StatusCache{RDB: rdb},
		ServiceName: "tracker",
	}, mr
}

func message(t *testing.T, ev orders.Event) kafkago.Message {
	t.Helper()
	c := &captured{}
	require.NoError(t, (&kafkax.OrderPublisher{Producer: c, Service: "test"}).Publish(context.Background(), ev))
	require.Len(t, c.msgs, 1)
	return c.msgs[0]
}

func event(id string, typ orders.EventType, s orders.Status, min int) orders.Event {
	at := time.Date(2024, 5, 1, 19, min, 0, 0, time.UTC)
	return orders.Event{
		ID:         id,
		Type:       typ,
		Order:      orders.Order{ID: "o1", Status: s, CreatedAt: at, UpdatedAt: at},
		OccurredAt: at,
	}
}

func TestHandleOrderEvent_CachesLatestStatus(t *testing.T) {
	s, mr := newService(t)
	ctx := context.Background()

	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e1", orders.Inserted, orders.StatusPending, 0))))
	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e3", orders.Updated, orders.StatusReady, 2))))
	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e2", orders.Updated, orders.StatusPreparing, 1))))

	got, ok, err := s.Cache.Get(ctx, "o1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, orders.StatusReady, got.Status)
	assert.True(t, mr.Exists(fmt.Sprintf(redisx.KeyDedup, "tracker", "e2")))
}

func TestHandleOrderEvent_DedupsByEventID(t *testing.T) {
	s, mr := newService(t)
	ctx := context.Background()
	msg := message(t, event("e1", orders.Inserted, orders.StatusPending, 0))

	require.NoError(t, s.HandleOrderEvent(ctx, msg))
	mr.Del(fmt.Sprintf(redisx.KeyOrderStatus, "o1"))
	require.NoError(t, s.HandleOrderEvent(ctx, msg))

	_, ok, err := s.Cache.Get(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, ok, "replayed event must not rewrite the cache")
}

func TestHandleOrderEvent_DeleteEvicts(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e1", orders.Inserted, orders.StatusPending, 0))))
	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e2", orders.Deleted, "", 5))))

	_, ok, err := s.Cache.Get(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandleOrderEvent_StaleUpdateAfterDelete(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e1", orders.Inserted, orders.StatusPending, 0))))
	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e3", orders.Deleted, "", 10))))
	// a worker picks up the older update only now
	require.NoError(t, s.HandleOrderEvent(ctx, message(t, event("e2", orders.Updated, orders.StatusPreparing, 5))))

	_, ok, err := s.Cache.Get(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandleOrderEvent_IgnoresForeignAndBrokenMessages(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	foreign := orders.Envelope{EventID: "x", EventType: "StockReserved", Payload: []byte(`{}`)}
	assert.NoError(t, s.HandleOrderEvent(ctx, kafkago.Message{Value: kafkax.MustMarshal(foreign)}))
	assert.NoError(t, s.HandleOrderEvent(ctx, kafkago.Message{Value: []byte("{")}))
}

func TestHandleOrderEvent_RedisDownIsRetried(t *testing.T) {
	s, mr := newService(t)
	mr.Close()

	err := s.HandleOrderEvent(context.Background(), message(t, event("e1", orders.Inserted, orders.StatusPending, 0)))
	assert.Error(t, err)
}

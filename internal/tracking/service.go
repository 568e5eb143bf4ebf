package tracking

import (
	"context"
	"errors"
	"fmt"

	kafkax "github.com/ariefcatur/go-pizzaria-orders/internal/kafka"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Service keeps the order status cache in step with the change feed.
type Service struct {
	Redis       *redis.Client
	Cache       *redisx.StatusCache
	ServiceName string
	Log         *zap.Logger
}

// HandleOrderEvent is installed as the consumer handler.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	ev, err := kafkax.DecodeOrderEvent(m)
	if errors.Is(err, kafkax.ErrUnknownEvent) {
		return nil
	}
	if err != nil {
		s.log().Error("drop undecodable order event", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, ev.ID)
	if seen, err := redisx.Exists(ctx, s.Redis, dkey); err != nil {
		return err
	} else if seen {
		return nil
	}

	if err := s.apply(ctx, ev); err != nil {
		return err
	}

	if _, err := redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup); err != nil {
		s.log().Warn("dedup mark failed", zap.String("event_id", ev.ID), zap.Error(err))
	}
	return nil
}

func (s *Service) apply(ctx context.Context, ev orders.Event) error {
	written, err := s.Cache.Apply(ctx, ev)
	if err != nil {
		return err
	}
	if ev.Type == orders.Deleted {
		s.log().Info("order status tombstoned", zap.String("order_id", ev.Order.ID))
		return nil
	}
	s.log().Info("order status cached",
		zap.String("order_id", ev.Order.ID),
		zap.String("status", string(ev.Order.Status)),
		zap.Bool("written", written),
	)
	return nil
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-pizzaria-orders/internal/config"
	kafkax "github.com/ariefcatur/go-pizzaria-orders/internal/kafka"
	"github.com/ariefcatur/go-pizzaria-orders/internal/logging"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/redisx"
	"github.com/ariefcatur/go-pizzaria-orders/internal/tracking"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName+"-tracker", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	svc := &tracking.Service{
		Redis:       rdb,
		Cache:       &redisx.StatusCache{RDB: rdb},
		ServiceName: cfg.ServiceName + "-tracker",
		Log:         log,
	}

	cons := kafkax.NewConsumer(kafkax.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		Group:   cfg.TrackerGroup,
		Topic:   orders.TopicOrdersChanged,
		Workers: cfg.TrackerWorkers,
		Logger:  log.Named("consumer"),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("tracker consumer started",
			zap.String("group", cfg.TrackerGroup),
			zap.String("topic", orders.TopicOrdersChanged),
			zap.Int("workers", cfg.TrackerWorkers),
		)
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer")
	cancel()
	<-done
}

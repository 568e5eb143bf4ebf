package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-pizzaria-orders/internal/cart"
	"github.com/ariefcatur/go-pizzaria-orders/internal/checkout"
	"github.com/ariefcatur/go-pizzaria-orders/internal/config"
	"github.com/ariefcatur/go-pizzaria-orders/internal/feedback"
	"github.com/ariefcatur/go-pizzaria-orders/internal/httpx"
	"github.com/ariefcatur/go-pizzaria-orders/internal/identity"
	kafkax "github.com/ariefcatur/go-pizzaria-orders/internal/kafka"
	"github.com/ariefcatur/go-pizzaria-orders/internal/logging"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/ariefcatur/go-pizzaria-orders/internal/orders"
	"github.com/ariefcatur/go-pizzaria-orders/internal/postgres"
	"github.com/ariefcatur/go-pizzaria-orders/internal/redisx"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type backends struct {
	orders    orders.Store
	feedbacks feedback.Store
	carts     cart.Store
	keys      checkout.Idempotency
	cache     httpx.StatusCache
	publisher orders.Publisher
	follow    func(ctx context.Context, m *orders.Manager)
	shutdown  []func()
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var b backends
	switch cfg.StorageDriver {
	case config.DriverMemory:
		b = memoryBackends()
	default:
		b, err = postgresBackends(ctx, cfg, log)
		if err != nil {
			log.Fatal("backends", zap.Error(err))
		}
	}

	mgr := orders.NewManager(b.orders, b.publisher, orders.ManagerConfig{
		Timeout:       cfg.RequestTimeout,
		EstimatedTime: cfg.EstimatedTime,
		Logger:        log.Named("orders"),
	})
	if err := mgr.Load(ctx); err != nil {
		log.Fatal("load orders", zap.Error(err))
	}
	if b.follow != nil {
		go b.follow(ctx, mgr)
	}

	catalog := menu.Default()
	api := &httpx.API{
		Identity: identity.HeaderProvider{StaffKey: cfg.StaffKey},
		Menu:     &httpx.MenuHandler{Catalog: catalog, DeliveryFee: cfg.DeliveryFee, EstimatedTime: cfg.EstimatedTime},
		Cart:     &httpx.CartHandler{Carts: b.carts, Catalog: catalog, Timeout: cfg.RequestTimeout, Log: log},
		Checkout: &httpx.CheckoutHandler{
			Service: &checkout.Service{
				Carts:       b.carts,
				Orders:      mgr,
				Keys:        b.keys,
				DeliveryFee: cfg.DeliveryFee,
				Log:         log.Named("checkout"),
			},
			Timeout: cfg.RequestTimeout,
			Log:     log,
		},
		Orders:   &httpx.OrdersHandler{Orders: mgr, Cache: b.cache, Timeout: cfg.RequestTimeout, Log: log},
		Staff:    &httpx.StaffHandler{Orders: mgr, Timeout: cfg.RequestTimeout, Log: log},
		Feedback: &httpx.FeedbackHandler{Ledger: &feedback.Ledger{Store: b.feedbacks, Timeout: cfg.RequestTimeout}, Timeout: cfg.RequestTimeout, Log: log},
	}
	router := httpx.NewRouter(log)
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()
	for i := len(b.shutdown) - 1; i >= 0; i-- {
		b.shutdown[i]()
	}
}

func memoryBackends() backends {
	feed := orders.NewBroadcaster(64)
	return backends{
		orders:    orders.NewMemoryStore(),
		feedbacks: feedback.NewMemoryStore().Seed(),
		carts:     cart.NewMemoryStore(),
		keys:      checkout.NewMemoryIdempotency(),
		publisher: feed,
		follow: func(ctx context.Context, m *orders.Manager) {
			m.Follow(ctx, feed.Subscribe(ctx))
		},
	}
}

func postgresBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (backends, error) {
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, log.Named("postgres"))
	if err != nil {
		return backends{}, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return backends{}, err
	}

	rdb := redisx.New(cfg.RedisAddr)
	cache := &redisx.StatusCache{RDB: rdb}
	b := backends{
		orders:    &orders.Repo{DB: db},
		feedbacks: &feedback.Repo{DB: db},
		carts:     &redisx.CartStore{RDB: rdb, TTL: cfg.CartTTL},
		keys:      &redisx.Idempotency{RDB: rdb},
		cache:     cache,
		publisher: cache,
		shutdown:  []func(){db.Close, func() { _ = rdb.Close() }},
	}
	if len(cfg.KafkaBrokers) == 0 {
		return b, nil
	}

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrdersChanged, 1024, log.Named("producer"))
	prod.Start(ctx)
	b.publisher = orders.MultiPublisher{cache, &kafkax.OrderPublisher{Producer: prod, Service: cfg.ServiceName}}
	b.shutdown = append(b.shutdown, func() {
		prod.Close()
		prod.WaitClosed()
	})

	// each api instance reads the whole feed to keep its own view current
	group := cfg.ServiceName + "-view-" + uuid.NewString()
	cons := kafkax.NewConsumer(kafkax.ConsumerConfig{
		Brokers:     cfg.KafkaBrokers,
		Group:       group,
		Topic:       orders.TopicOrdersChanged,
		Workers:     1,
		StartOffset: kafkago.LastOffset,
		Logger:      log.Named("consumer"),
	})
	b.follow = func(ctx context.Context, m *orders.Manager) {
		err := cons.Start(ctx, func(_ context.Context, msg kafkago.Message) error {
			ev, err := kafkax.DecodeOrderEvent(msg)
			if err != nil {
				if !errors.Is(err, kafkax.ErrUnknownEvent) {
					log.Warn("skip order event", zap.Error(err))
				}
				return nil
			}
			m.Apply(ev)
			return nil
		})
		if err != nil {
			log.Error("order feed consumer exit", zap.Error(err))
		}
	}
	return b, nil
}

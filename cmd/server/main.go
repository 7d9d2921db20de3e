package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/cache"
	"storefront-be/internal/cart"
	"storefront-be/internal/checkout"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/events"
	"storefront-be/internal/httpapi"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/subscriber"
	"storefront-be/internal/upload"
	"storefront-be/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

// server owns the router and every background dependency it was built with.
type server struct {
	http.Handler

	producer *events.Producer
	redis    *redis.Client
}

// close flushes pending events and releases the redis pool.
func (s *server) close() {
	if s.producer != nil {
		s.producer.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.L().Warn("redis close failed", zap.Error(err))
		}
	}
}

func newCache(cfg *config.Config) (cache.Cache, *redis.Client) {
	if cfg.RedisAddr == "" {
		logger.L().Info("redis not configured, order cache disabled")
		return cache.Noop{}, nil
	}
	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	logger.L().Info("redis order cache enabled", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedis(rdb), rdb
}

func newPublisher(cfg *config.Config, registry *metrics.Registry) (events.Publisher, *events.Producer) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.L().Info("kafka not configured, domain events disabled")
		return events.Noop{}, nil
	}
	p := events.NewProducer(cfg.ServiceName, events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), 1024, events.Counters{
		Published: registry.Counter(metrics.EventsPublished),
		Dropped:   registry.Counter(metrics.EventsDropped),
		Failed:    registry.Counter(metrics.EventsFailed),
	})
	p.Start()
	logger.L().Info("kafka producer started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	return p, p
}

func newStorage(ctx context.Context, cfg *config.Config) (upload.Storage, error) {
	if cfg.S3Bucket == "" {
		logger.L().Info("s3 not configured, image upload disabled")
		return upload.Disabled{}, nil
	}
	return upload.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
}

// newServer wires repositories, services and the router. The rate limiter
// sweeps idle visitors until ctx is cancelled.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (*server, error) {
	registry := metrics.NewRegistry()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	images, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	orderCache, rdb := newCache(cfg)
	publisher, producer := newPublisher(cfg, registry)

	userRepo := user.NewRepository(database)
	productSvc := product.NewService(product.NewRepository(database))

	svc := httpapi.Services{
		Users:       user.NewService(userRepo, tokens),
		Products:    productSvc,
		Carts:       cart.NewService(cart.NewRepository(database), productSvc, registry.Counter(metrics.CartConflicts)),
		Checkouts:   checkout.NewService(checkout.NewRepository(database), publisher, registry.Counter(metrics.OrdersFinalized)),
		Subscribers: subscriber.NewService(subscriber.NewRepository(database)),
		Images:      images,
		Orders: order.NewService(order.NewRepository(database), orderCache, publisher, order.Options{
			RequireOwner: cfg.OrderDetailRequireOwner,
			CacheHits:    registry.Counter(metrics.OrderCacheHits),
			CacheMisses:  registry.Counter(metrics.OrderCacheMisses),
		}),
	}

	limiter := middleware.NewRateLimiter(cfg.InternalServiceKey, registry.Counter(metrics.RateLimited))
	go limiter.Run(ctx)

	router := httpapi.NewRouter(httpapi.NewHandler(svc, registry), httpapi.RouterOptions{
		Auth:       middleware.NewAuth(tokens, userRepo),
		Limiter:    limiter,
		CORSOrigin: cfg.CORSOrigin,
	})

	return &server{Handler: router, producer: producer, redis: rdb}, nil
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := initDBFunc(cfg)
	defer database.Close()

	app, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer app.close()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
		)
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

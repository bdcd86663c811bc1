package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"donorlink/internal/audit"
	"donorlink/internal/donation/cache"
	"donorlink/internal/donation/handler"
	donationmetrics "donorlink/internal/donation/metrics"
	"donorlink/internal/donation/service"
	"donorlink/internal/donation/store"
	"donorlink/internal/donation/store/postgres"
	"donorlink/internal/donation/store/sqlite"
	"donorlink/internal/platform/config"
	"donorlink/internal/platform/database"
	"donorlink/internal/platform/httpserver"
	"donorlink/internal/platform/kafka"
	"donorlink/internal/platform/logger"
	httpmetrics "donorlink/internal/platform/metrics"
	"donorlink/internal/platform/ratelimit"
	"donorlink/internal/platform/redis"
	"donorlink/internal/platform/tracing"
	"donorlink/pkg/platform/httputil"
	"donorlink/pkg/platform/middleware/admin"
	"donorlink/pkg/platform/middleware/metadata"
	"donorlink/pkg/platform/middleware/request"
	"donorlink/pkg/platform/middleware/requesttime"
)

// backend is the selected database with everything the service needs from it.
type backend struct {
	db        *sql.DB
	tx        service.DonationStoreTx
	stores    service.Stores
	outbox    audit.OutboxStore
	directory store.Directory
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	be, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer be.db.Close()
	log.Info("donation store ready", "driver", cfg.Store.Driver)

	if cfg.SeedDemo {
		demo, err := store.SeedDemo(ctx, be.directory, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		log.Info("demo data seeded",
			"hospital_id", demo.Hospital.String(),
			"receiver_id", demo.Receiver.String(),
			"assignment_id", demo.Assignment.String(),
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(donationmetrics.New(registry)),
		service.WithCompatibilityEnforcement(cfg.EnforceCompatibility),
	}
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithStatsCache(cache.NewStatsCache(redisClient.Client, cfg.Redis.StatsCacheTTL, cache.WithLogger(log))))
		log.Info("donor stats cache enabled", "ttl", cfg.Redis.StatsCacheTTL.String())
	}
	svc := service.New(be.tx, be.stores, opts...)

	publisher, closePublisher, err := newPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closePublisher()
	relay := audit.NewRelay(be.outbox, publisher,
		audit.WithPollInterval(cfg.Kafka.PollInterval),
		audit.WithBatchSize(cfg.Kafka.BatchSize),
		audit.WithRelayLogger(log),
	)

	var limiter *ratelimit.Store
	if cfg.WriteRateLimit > 0 {
		limiter = ratelimit.NewStore(cfg.WriteRateLimit, cfg.WriteRateWindow)
	}

	router := newRouter(cfg, log, registry, limiter, handler.New(svc, log), func(ctx context.Context) error {
		if err := be.db.PingContext(ctx); err != nil {
			return err
		}
		if redisClient != nil {
			return redisClient.Health(ctx)
		}
		return nil
	})
	srv := httpserver.New(cfg.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting donorlink", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox relay: %w", err)
		}
		return nil
	})
	if limiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.WriteRateWindow)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					limiter.Sweep()
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (*backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dbCfg := database.Config{
			URL:          cfg.DatabaseURL,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		}
		var (
			db  *sql.DB
			err error
		)
		if cfg.MigrateOnStart {
			db, err = postgres.Open(ctx, dbCfg)
		} else {
			db, err = database.Open(ctx, dbCfg)
		}
		if err != nil {
			return nil, err
		}
		return &backend{
			db:        db,
			tx:        postgres.NewTx(db, cfg.TxTimeout, cfg.LockTimeout),
			stores:    postgres.NewStores(db),
			outbox:    postgres.NewOutboxStore(db),
			directory: postgres.NewDirectory(db),
		}, nil
	default:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{
			db:        db,
			tx:        sqlite.NewTx(db, cfg.TxTimeout),
			stores:    sqlite.NewStores(db),
			outbox:    sqlite.NewOutboxStore(db),
			directory: sqlite.NewDirectory(db),
		}, nil
	}
}

// newPublisher returns the Kafka producer when brokers are configured and a
// log publisher otherwise.
func newPublisher(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Publisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Info("no kafka brokers configured, donation events go to the log")
		return audit.NewLogPublisher(log), func() {}, nil
	}
	producer, err := kafka.NewProducer(ctx, cfg.Brokers, cfg.Topic, log)
	if err != nil {
		return nil, nil, err
	}
	if err := producer.EnsureTopic(ctx, 3, 1); err != nil {
		producer.Close()
		return nil, nil, err
	}
	return producer, producer.Close, nil
}

func newRouter(cfg config.Server, log *slog.Logger, registry *prometheus.Registry, limiter *ratelimit.Store, h *handler.Handler, ready func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.AccessLog(log))
	r.Use(request.Recovery(log))
	r.Use(httpmetrics.New(registry).Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(ratelimit.LimitWrites(limiter, log))
		h.Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.AdminToken, log))
		h.RegisterAdmin(r)
	})
	return r
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/database"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/health"
	pkgkafka "github.com/AfsalAzizi/food-delivery-platform/pkg/kafka"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/middleware"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/tracing"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/auth"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/config"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/event"
	handler "github.com/AfsalAzizi/food-delivery-platform/services/user/internal/handler/http"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/repository/postgres"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/service"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/migrations"
)

const serviceName = "user"

// App wires together all dependencies and runs the user service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	dispatcher     *event.Dispatcher
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		pool.Close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	dispatcher := event.NewDispatcher(producer, event.DispatcherConfig{
		QueueSize:      cfg.EventQueueSize,
		Workers:        cfg.EventWorkers,
		PublishTimeout: cfg.EventPublishTimeout,
	}, logger)
	events := event.NewProducer(dispatcher, logger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(postgres.NewUserRepository(pool), jwtManager, events, logger)
	addressService := service.NewAddressService(postgres.NewAddressRepository(pool), events, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	// Events are best effort, so a broker outage only degrades readiness.
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := handler.NewRouter(userService, addressService, jwtManager.Validator(), healthHandler, logger, handler.RouterConfig{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		PprofAllowed: cfg.PprofAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		dispatcher:     dispatcher,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops the components in dependency order. The HTTP server goes
// first so no new events are produced, and the dispatcher drains before the
// producer it writes to is closed.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	stages := []struct {
		name    string
		timeout time.Duration
		stop    func(context.Context) error
	}{
		{"http server", 5 * time.Second, a.httpServer.Shutdown},
		{"event dispatcher", a.cfg.EventPublishTimeout + time.Second, a.dispatcher.Close},
		{"tracer", 3 * time.Second, a.tracerShutdown},
		{"kafka producer", 0, func(context.Context) error { return a.producer.Close() }},
		{"postgres pool", 0, func(context.Context) error { a.pool.Close(); return nil }},
	}

	var errs []error
	for _, st := range stages {
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if st.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, st.timeout)
		}
		err := st.stop(ctx)
		cancel()
		if err != nil {
			a.logger.Error("shutdown stage failed",
				slog.String("stage", st.name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

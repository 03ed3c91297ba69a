package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgkafka "github.com/bibbank/purchase-approval/pkg/kafka"
	"github.com/bibbank/purchase-approval/pkg/observability"
	pkgpostgres "github.com/bibbank/purchase-approval/pkg/postgres"
	"github.com/bibbank/purchase-approval/pkg/tlsutil"

	"github.com/bibbank/purchase-approval/internal/application/usecase"
	"github.com/bibbank/purchase-approval/internal/domain/port"
	"github.com/bibbank/purchase-approval/internal/domain/service"
	"github.com/bibbank/purchase-approval/internal/infrastructure/adapter"
	"github.com/bibbank/purchase-approval/internal/infrastructure/cache"
	"github.com/bibbank/purchase-approval/internal/infrastructure/config"
	"github.com/bibbank/purchase-approval/internal/infrastructure/kafka"
	"github.com/bibbank/purchase-approval/internal/infrastructure/outbox"
	pgRepo "github.com/bibbank/purchase-approval/internal/infrastructure/postgres"
	"github.com/bibbank/purchase-approval/internal/infrastructure/recorder"
	"github.com/bibbank/purchase-approval/internal/infrastructure/scheduler"
	grpcPresentation "github.com/bibbank/purchase-approval/internal/presentation/grpc"
	"github.com/bibbank/purchase-approval/internal/presentation/rest"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "dev-certs" {
		if err := runDevCerts(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("purchase-approval exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("purchase-approval stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting purchase-approval",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"profile_source", cfg.ProfileSource,
	)

	// Tracing and metrics.
	if cfg.TracingEnabled() {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort meter shutdown

	// Database connection and migrations.
	dsn := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}.DSN()

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	pool, err := pkgpostgres.NewPool(dbCtx, dsn, 0, 0)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pgRepo.Migrate(dsn); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	appRepo := pgRepo.NewPurchaseApplicationRepo(pool)
	outboxRepo := pgRepo.NewOutboxRepo(pool)
	profileRepo := pgRepo.NewFinancialProfileRepo(pool)

	// Capacity lookup chain: source, retries, optional cache.
	var source port.CapacityLookup
	switch cfg.ProfileSource {
	case config.ProfileSourcePostgres:
		source = profileRepo
	default:
		source = adapter.NewStaticProfileLookup(adapter.SeedProfiles())
	}
	var capacity port.CapacityLookup = adapter.NewRetryingLookup(source, adapter.DefaultRetryConfig(), logger)

	checks := map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
	}

	var capacityCache kafka.CapacityInvalidator
	if cfg.RedisEnabled() {
		store := cache.NewRedisStore(cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = store.Close() }()
		cached := cache.NewCachedCapacityLookup(capacity, store, cfg.Redis.TTL, logger)
		capacity = cached
		capacityCache = cached
		checks["redis"] = store.Ping
		logger.Info("capacity cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	// Event publishing through Kafka with outbox tracking.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }()

	eventPublisher := kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	publisher := outbox.NewTrackingPublisher(eventPublisher, outboxRepo, logger)
	relay := outbox.NewRelay(outboxRepo, eventPublisher, outbox.RelayConfig{
		Grace:     cfg.Outbox.Grace,
		BatchSize: cfg.Outbox.BatchSize,
	}, logger)

	// Decision journal. An empty journal.sqlite_path disables it.
	var journal port.DecisionRecorder = recorder.NewNoopRecorder()
	if cfg.Journal.SQLitePath != "" {
		sqliteJournal, err := recorder.NewSQLiteRecorder(cfg.Journal.SQLitePath, logger)
		if err != nil {
			return fmt.Errorf("open decision journal: %w", err)
		}
		checks["journal"] = sqliteJournal.Ping
		journal = sqliteJournal
	} else {
		logger.Warn("decision journal disabled, no sqlite path configured")
	}
	defer func() { _ = journal.Close() }()

	// Background jobs.
	sched := scheduler.New(logger)
	if err := sched.Register("journal-prune", cfg.Journal.PruneCron,
		scheduler.PruneJournal(journal, cfg.Journal.RetentionDays, logger)); err != nil {
		return err
	}
	if err := sched.Register("outbox-relay", cfg.Outbox.RelayCron, scheduler.RelayOutbox(relay)); err != nil {
		return err
	}
	sched.Start()

	// Domain service and use cases.
	bounds, err := cfg.Bounds()
	if err != nil {
		return err
	}
	engine := service.NewApprovalEngine(bounds, logger)

	applyUC := usecase.NewApplyForPurchaseUseCase(appRepo, publisher, capacity, engine, journal, logger)
	getUC := usecase.NewGetApplicationUseCase(appRepo)
	listUC := usecase.NewListCustomerApplicationsUseCase(appRepo)

	// gRPC server.
	grpcCfg := grpcPresentation.ServerConfig{ServiceName: cfg.ServiceName}
	if cfg.TLSEnabled() {
		creds, err := tlsutil.ServerCredentials(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.CAFile)
		if err != nil {
			return fmt.Errorf("load gRPC TLS credentials: %w", err)
		}
		grpcCfg.Creds = creds
	}
	grpcServer := grpcPresentation.NewServer(
		grpcPresentation.NewPurchaseHandler(applyUC, getUC, listUC, logger),
		grpcCfg,
		logger,
	)

	// HTTP server.
	router := rest.NewRouter(rest.RouterConfig{
		Purchase: rest.NewPurchaseHandler(applyUC, getUC, listUC, logger),
		Health:   rest.NewHealthHandler(cfg.ServiceName, checks, logger),
		Metrics:  metricsHandler,
		Limiter:  rest.NewRateLimiter(cfg.RateLimitRPS),
		Logger:   logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers and consumers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if cfg.ProfileSyncEnabled() {
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ProfileTopic,
			kafka.NewProfileSyncHandler(profileRepo, capacityCache, logger), logger)
		if err != nil {
			return fmt.Errorf("create profile sync consumer: %w", err)
		}
		defer func() { _ = consumer.Close() }()
		go func() {
			if err := consumer.Start(consumerCtx); err != nil {
				errCh <- fmt.Errorf("profile sync consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	stopConsumer()
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	sched.Stop(shutdownCtx)

	return runErr
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viralforge/profiles-service/internal/adapters/cache"
	eventadapter "github.com/viralforge/profiles-service/internal/adapters/events"
	httpadapter "github.com/viralforge/profiles-service/internal/adapters/http"
	mongoadapter "github.com/viralforge/profiles-service/internal/adapters/mongo"
	"github.com/viralforge/profiles-service/internal/adapters/postgres"
	"github.com/viralforge/profiles-service/internal/adapters/security"
	"github.com/viralforge/profiles-service/internal/adapters/users"
	"github.com/viralforge/profiles-service/internal/application"
	"github.com/viralforge/profiles-service/internal/ports"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

type Runtime struct {
	cfg       Config
	logger    *slog.Logger
	service   *application.Service
	profiles  ports.ProfileRepository
	outbox    *eventadapter.OutboxWorker
	cleanupFn func(context.Context)
}

// NewRuntime loads configuration and connects every dependency. Network
// listeners are opened later by RunAPI so the worker and migrate commands
// never bind ports.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	baseLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(baseLogger)
	logger := baseLogger.With("service", cfg.ServiceID)

	shutdownTracing, err := setupTracing(ctx, cfg.ServiceID, cfg.OTelEndpoint)
	if err != nil {
		logger.WarnContext(ctx, "tracing disabled", "error", err)
	}

	var closers []func(context.Context) error
	cleanup := func(ctx context.Context) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i](ctx)
		}
		_ = shutdownTracing(ctx)
	}

	profiles, outboxRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		cleanup(ctx)
		return nil, err
	}
	closers = append(closers, closeStore)

	var cacheStore ports.Cache = cache.NoopCache{}
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			cleanup(ctx)
			return nil, redisErr
		}
		cacheStore = cache.NewRedisCache(redisClient)
		closers = append(closers, func(context.Context) error { return redisClient.Close() })
	} else {
		logger.InfoContext(ctx, "profile cache disabled", "reason", "REDIS_URL not set")
	}

	verifier, err := security.NewHMACVerifier(cfg.JWTSecret, cfg.JWTLeeway)
	if err != nil {
		cleanup(ctx)
		return nil, err
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:     cfg.ServiceID,
			ProfileCacheTTL: cfg.ProfileCacheTTL,
		},
		Profiles:   profiles,
		Outbox:     outboxRepo,
		Tokens:     verifier,
		Identities: users.NewClient(cfg.UserServiceURL, cfg.UserServicePath, cfg.UserServiceTimeout),
		Cache:      cacheStore,
	})

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			application.EventProfileCreated: cfg.KafkaTopicProfileCreated,
			application.EventProfileUpdated: cfg.KafkaTopicProfileUpdated,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, closerFunc(kafkaPublisher))
		}
	}

	return &Runtime{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		profiles:  profiles,
		outbox:    eventadapter.NewOutboxWorker(logger, outboxRepo, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize, cfg.OutboxMaxRetries),
		cleanupFn: cleanup,
	}, nil
}

func openStore(ctx context.Context, cfg Config) (ports.ProfileRepository, ports.OutboxRepository, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case StorePostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresURL, cfg.MaxDBConns)
		if err != nil {
			return nil, nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, err
		}
		repos := postgres.NewRepositories(db)
		return repos.Profiles, repos.Outbox, func(context.Context) error { return sqlDB.Close() }, nil
	default:
		client, err := mongoadapter.Connect(ctx, cfg.MongoConnectionURI())
		if err != nil {
			return nil, nil, nil, err
		}
		repos := mongoadapter.NewRepositories(client.Database(cfg.MongoDatabase))
		return repos.Profiles, repos.Outbox, client.Disconnect, nil
	}
}

func closerFunc(c io.Closer) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}

// Migrate ensures the store schema: the unique email index on Mongo or
// the embedded SQL migrations on Postgres.
func (r *Runtime) Migrate(ctx context.Context) error {
	defer r.cleanupFn(context.Background())
	if err := r.profiles.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.logger.InfoContext(ctx, "store schema ensured", "operation", "migrate", "outcome", "success", "store", r.cfg.StoreDriver)
	return nil
}

// RunAPI serves HTTP and the gRPC health service until a signal arrives or
// either server fails. With withWorker the outbox worker runs alongside.
func (r *Runtime) RunAPI(ctx context.Context, withWorker bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.cleanupFn(context.Background())

	if err := r.profiles.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", r.cfg.HTTPPort),
		Handler:           otelhttp.NewHandler(httpadapter.NewRouter(httpadapter.NewHandler(r.service, r.cfg.ServiceID, slog.Default())), "profiles.http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.logger.InfoContext(gctx, "http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		r.logger.InfoContext(gctx, "grpc health server listening", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	if withWorker {
		g.Go(func() error {
			if err := r.outbox.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		healthSrv.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	err = g.Wait()
	if err != nil {
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	return err
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.cleanupFn(context.Background())

	r.logger.InfoContext(ctx, "outbox worker started", "interval", r.cfg.OutboxPollInterval.String(), "batch_size", r.cfg.OutboxBatchSize, "max_retries", r.cfg.OutboxMaxRetries)
	if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

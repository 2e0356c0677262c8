package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"deposit-reconciler/config"
	httpHandler "deposit-reconciler/internal/adapter/http/handler"
	"deposit-reconciler/internal/adapter/provider"
	"deposit-reconciler/internal/adapter/storage/memory"
	pgStorage "deposit-reconciler/internal/adapter/storage/postgres"
	redisStorage "deposit-reconciler/internal/adapter/storage/redis"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/internal/service"
	"deposit-reconciler/pkg/logger"
	"deposit-reconciler/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// storage bundles the repositories of the selected driver.
type storage struct {
	deposits   ports.DepositRepository
	approvals  ports.ApprovalRepository
	audit      ports.AuditRepository
	transactor ports.Transactor
	health     []ports.HealthChecker
	close      func()
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Deposit reconciler stopped")
	}
	log.Info().Msg("Server exited")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting Deposit Reconciler")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	// Redis backs the claim lock and rate limiting when enabled; otherwise the
	// lock is process-local and rate limiting is off.
	var (
		locker         ports.ClaimLocker = service.NewLocalClaimLocker(cfg.Lock.WaitTimeout)
		rateLimitStore *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		locker = redisStorage.NewClaimLock(rdb, cfg.Lock, log)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		store.health = append(store.health, redisStorage.NewHealthCheck(rdb))
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	providers := provider.NewProviders(cfg.Providers, log)
	dispatcher := service.NewDispatcher(store.deposits, locker, providers, collector, log)
	registry := service.NewRegistry(store.deposits, store.approvals, log)
	controller := service.NewWorkflowController(service.WorkflowDeps{
		Deposits:   store.deposits,
		Dispatcher: dispatcher,
		Approvals: service.NewApprovalOrchestrator(
			store.deposits, store.approvals, store.transactor, locker, collector, cfg.Workflow.MaxOutcomeAge, log,
		),
		Rejections:  service.NewRejectionHandler(store.deposits, locker, collector, log),
		Corrections: service.NewCorrectionHandler(store.deposits, locker, collector, log),
		Metrics:     collector,
	}, cfg.Workflow.TTL, log)

	deps := httpHandler.RouterDeps{
		Registry:       registry,
		Dispatcher:     dispatcher,
		Workflows:      controller,
		AuditSvc:       service.NewAuditService(store.audit, log),
		Metrics:        collector,
		HealthCheckers: store.health,
		Logger:         log,
	}
	if cfg.JWT.Secret != "" {
		deps.TokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	} else {
		log.Warn().Msg("jwt.secret is empty, operator API is unauthenticated")
	}
	if rateLimitStore != nil {
		deps.RateLimitStore = rateLimitStore
	}

	gin.SetMode(cfg.Server.Mode)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: httpHandler.SetupRouter(deps),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return controller.Run(gctx, cfg.Workflow.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		mem := memory.NewStore()
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &storage{
			deposits:   mem,
			approvals:  mem.Approvals(),
			audit:      mem.Audit(),
			transactor: mem,
			close:      func() {},
		}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := pgStorage.Migrate(cfg.Database.DSN(), log); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	log.Info().Msg("PostgreSQL connected")

	return &storage{
		deposits:   pgStorage.NewDepositRepo(pool),
		approvals:  pgStorage.NewApprovalRepo(pool),
		audit:      pgStorage.NewAuditRepo(pool),
		transactor: pgStorage.NewTransactor(pool),
		health:     []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
		close:      pool.Close,
	}, nil
}

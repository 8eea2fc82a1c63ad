package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/rentfolio/rentfolio/internal/app"
	"github.com/rentfolio/rentfolio/internal/auth"
	"github.com/rentfolio/rentfolio/internal/dashboard"
	"github.com/rentfolio/rentfolio/internal/expenses"
	"github.com/rentfolio/rentfolio/internal/leases"
	"github.com/rentfolio/rentfolio/internal/maintenance"
	"github.com/rentfolio/rentfolio/internal/observability"
	"github.com/rentfolio/rentfolio/internal/payments"
	"github.com/rentfolio/rentfolio/internal/platform/cache"
	"github.com/rentfolio/rentfolio/internal/platform/db"
	"github.com/rentfolio/rentfolio/internal/properties"
	"github.com/rentfolio/rentfolio/internal/shared"
	"github.com/rentfolio/rentfolio/internal/tenants"
	"github.com/rentfolio/rentfolio/internal/units"
	"github.com/rentfolio/rentfolio/internal/users"
	"github.com/rentfolio/rentfolio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	sessionManager := shared.NewSessionManager(redisClient, "rf_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)
	idempotency := shared.NewIdempotencyStore(pool)
	metrics := observability.NewMetrics()
	dashboardCache := cache.New(redisClient, cfg.DashboardCacheTTL)

	authService := auth.NewService(auth.NewRepository(pool))
	userService := users.NewService(users.NewRepository(pool))
	propertyService := properties.NewService(properties.NewRepository(pool))
	unitService := units.NewService(units.NewRepository(pool))
	tenantService := tenants.NewService(tenants.NewRepository(pool))
	leaseService := leases.NewService(leases.NewRepository(pool))
	paymentService := payments.NewService(payments.NewRepository(pool), leaseService, idempotency)
	expenseService := expenses.NewService(expenses.NewRepository(pool))
	maintenanceService := maintenance.NewService(maintenance.NewRepository(pool))
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Metrics:        metrics,

		AuthHandler:        auth.NewHandler(logger, authService, sessionManager, csrfManager),
		UserHandler:        users.NewHandler(logger, userService),
		PropertyHandler:    properties.NewHandler(logger, propertyService),
		UnitHandler:        units.NewHandler(logger, unitService),
		TenantHandler:      tenants.NewHandler(logger, tenantService),
		LeaseHandler:       leases.NewHandler(logger, leaseService, auditLogger),
		PaymentHandler:     payments.NewHandler(logger, paymentService, auditLogger),
		ExpenseHandler:     expenses.NewHandler(logger, expenseService),
		MaintenanceHandler: maintenance.NewHandler(logger, maintenanceService),
		DashboardHandler:   dashboard.NewHandler(logger, dashboardService, dashboardCache, paymentService),
		JobsHandler:        jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

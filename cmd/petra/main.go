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
	"golang.org/x/sync/errgroup"

	"github.com/petra-erp/petra-erp/internal/app"
	"github.com/petra-erp/petra-erp/internal/fleet"
	"github.com/petra-erp/petra-erp/internal/logistics"
	"github.com/petra-erp/petra-erp/internal/observability"
	"github.com/petra-erp/petra-erp/internal/platform/cache"
	"github.com/petra-erp/petra-erp/internal/platform/db"
	"github.com/petra-erp/petra-erp/internal/serviceorders"
	"github.com/petra-erp/petra-erp/internal/shared"
	"github.com/petra-erp/petra-erp/internal/workforce"
	"github.com/petra-erp/petra-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)
	orderLocker := shared.NewOrderLocker(redisClient, cfg.OrderLockTTL)

	fleetRepo := fleet.NewRepository(pool)
	fleetService := fleet.NewService(fleetRepo)
	fleetHandler := fleet.NewHandler(logger, fleetService)

	workforceRepo := workforce.NewRepository(pool)
	workforceService := workforce.NewService(workforceRepo)
	workforceHandler := workforce.NewHandler(logger, workforceService)

	logisticsRepo := logistics.NewRepository(pool)
	logisticsService := logistics.NewService(logisticsRepo, fleetService, workforceService, orderLocker, auditLogger, metrics, logger)
	logisticsHandler := logistics.NewHandler(logger, logisticsService)

	ordersRepo := serviceorders.NewRepository(pool)
	ordersService := serviceorders.NewService(ordersRepo, orderLocker, auditLogger, metrics, logger)
	ordersHandler := serviceorders.NewHandler(logger, ordersService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		FleetHandler:         fleetHandler,
		WorkforceHandler:     workforceHandler,
		LogisticsHandler:     logisticsHandler,
		ServiceOrdersHandler: ordersHandler,
		JobHandler:           jobHandler,
		Pool:                 pool,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}

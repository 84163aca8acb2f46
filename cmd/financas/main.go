package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"financas/internal/cache"
	"financas/internal/cli"
	apphttp "financas/internal/http"
	"financas/internal/identity"
	applog "financas/internal/log"
	"financas/internal/metrics"
	"financas/internal/middleware/ratelimit"
	"financas/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	startCtx := context.Background()
	backend := cli.InitStore(startCtx, logger, cfg)
	st := backend.Store

	publisher, amqpCloser := cli.ConnectPublisher(startCtx, logger, cfg)
	archiver, archiveCloser := cli.OpenArchiver(startCtx, logger, cfg)

	dashCache := cache.NewLRUCache[metrics.Dashboard](cfg.DashboardCacheSize, cfg.DashboardCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(dashCache)
	cacheManager.StartCleanup(cfg.DashboardCacheTTL)

	dashboard := services.NewDashboardService(st, st, dashCache, cfg.MonthlySeriesMonths)
	svc := apphttp.Services{
		Transactions: services.NewTransactionService(st, publisher, dashboard),
		Recurring:    services.NewRecurringService(st, dashboard),
		Cards:        services.NewCardService(st),
		Profiles:     services.NewProfileService(st),
		Dashboard:    dashboard,
		Imports:      services.NewImportService(st, archiver, publisher, dashboard),
	}

	srv, err := apphttp.NewServer(cfg.Addr(), svc, st, identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer), logger, apphttp.Options{
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		MaxImportBytes: cfg.MaxImportBytes,
	})
	cli.Must(logger, "Failed to build HTTP server", err)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		cli.CloseAll(ctx, logger, amqpCloser, archiveCloser)
		if err := backend.Cleanup(); err != nil {
			logger.ErrorContext(ctx, "Store cleanup error", "error", err)
		}
	})

	logger.InfoContext(ctx, "Starting financas server", applog.FieldOperation, applog.OpStartup, "addr", cfg.Addr(), "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.ErrorContext(ctx, "Server error", "error", err, "addr", cfg.Addr())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.InfoContext(ctx, "Server stopped gracefully")
}

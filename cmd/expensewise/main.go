package main

import (
	"context"
	"os"
	"time"

	"expensewise/internal/backend"
	"expensewise/internal/cache"
	"expensewise/internal/cli"
	"expensewise/internal/config"
	"expensewise/internal/core"
	"expensewise/internal/display"
	apphttp "expensewise/internal/http"
	"expensewise/internal/log"
	"expensewise/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).Validate)

	formatter, err := display.NewFormatter(display.Settings{
		Currency:      cfg.Currency,
		Locale:        cfg.Locale,
		CategoryChart: cfg.CategoryChart,
	})
	if err != nil {
		logger.Error("Invalid display settings", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	backendCfg.Money = formatter.Money

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	result, err := backend.NewFactory(logger.Slog()).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()
	be := result.Backend

	dashboardCache := cache.NewLRUCache[core.Dashboard](16, cfg.CacheTTL)
	cacheManager := cache.NewManager(logger.Slog())
	cacheManager.Register(dashboardCache)
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	session := services.NewSession(
		services.NewExpenseService(be.Store, be.Publisher),
		services.NewDashboardService(be.Store, dashboardCache),
		services.NewAdviceService(be.Store, be.Advisor, logger.WithComponent(log.ComponentAdvice)),
	)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:            ":" + cfg.Port,
		Session:         session,
		Formatter:       formatter,
		Logger:          logger,
		RateLimitPerMin: cfg.RateLimitPerMin,
		WriteTimeout:    cfg.AdviceTimeout + 30*time.Second,
		Checks:          be.Checks,
	})

	logger.Info("Starting expensewise server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"advice_provider", cfg.AdviceProvider,
		"events", be.Publisher != nil)

	err = cli.RunTasks(ctx, logger, 30*time.Second, cli.Task{
		Name: "http",
		Run:  func(context.Context) error { return srv.ListenAndServe() },
		Stop: srv.Shutdown,
	})
	if err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

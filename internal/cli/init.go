// Package cli holds the start-up steps shared by the expensewise binaries.
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensewise/internal/config"
	"expensewise/internal/log"
)

// NewLogger builds the root logger from LOG_LEVEL and LOG_FORMAT values.
func NewLogger(level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Format = format
	return log.New(cfg), err
}

// SetupLogger initializes structured logging from cfg and installs it as
// the default logger. An unknown level falls back to info.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Warn("Falling back to info logging", "error", err)
	}
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and checks it with validate.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(validate func(*config.Config) error) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg)
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
	}()
	return ctx, stop
}

// Task is a long-running part of a binary. Run blocks until ctx is done or
// the task fails; Stop gets a bounded context to drain in-flight work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
	Stop func(ctx context.Context) error
}

// RunTasks runs every task until ctx is cancelled or one of them fails,
// then stops all of them within timeout. The first failure is returned.
func RunTasks(ctx context.Context, logger *log.Logger, timeout time.Duration, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			logger.Info("Starting task", "task", t.Name)
			err := t.Run(gctx)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Task failed", "task", t.Name, "error", err)
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var errs []error
		for i := len(tasks) - 1; i >= 0; i-- {
			if tasks[i].Stop == nil {
				continue
			}
			if err := tasks[i].Stop(stopCtx); err != nil {
				logger.Error("Task shutdown error", "task", tasks[i].Name, "error", err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	err := g.Wait()
	if err == nil {
		logger.Info("Shutdown complete")
	}
	return err
}

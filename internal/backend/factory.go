package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expensewise/internal/advice"
	"expensewise/internal/amqp"
	"expensewise/internal/config"
	"expensewise/internal/core"
	"expensewise/internal/llm"
	"expensewise/internal/storage"
	"expensewise/internal/store"
	"expensewise/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result  BackendResult
		cleanup []CleanupFunc
	)
	result.Backend.Checks = map[string]func(context.Context) error{}

	switch config.Type {
	case SQLiteBackend:
		repo, err := f.createSQLiteStore(ctx, config)
		if err != nil {
			return nil, err
		}
		result.Backend.Store = repo
		result.Backend.Checks["sqlite"] = repo.Ping
		cleanup = append(cleanup, repo.Close)
	case MemoryBackend:
		result.Backend.Store = f.createMemoryStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; the service runs without events when the broker is down
	if config.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Backend.Publisher = amqpClient
			result.Backend.Checks["amqp"] = func(context.Context) error {
				if !amqpClient.Ready() {
					return errors.New("amqp channel closed")
				}
				return nil
			}
			cleanup = append(cleanup, amqpClient.Close)
		}
	}

	result.Backend.Advisor = f.createAdvisor(config)

	result.Cleanup = func() error {
		var errs []error
		for i := len(cleanup) - 1; i >= 0; i-- {
			errs = append(errs, cleanup[i]())
		}
		return errors.Join(errs...)
	}
	return &result, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if config.SeedSample {
		if err := seedIfEmpty(ctx, repo); err != nil {
			repo.Close()
			return nil, err
		}
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) *memory.Store {
	if config.SeedSample {
		f.logger.Info("Initialized memory backend with sample data")
		return memory.NewSeeded(core.SampleExpenses())
	}
	f.logger.Info("Initialized memory backend")
	return memory.New()
}

func (f *DefaultFactory) createAdvisor(cfg Config) advice.Advisor {
	if cfg.AdviceProvider == config.AdviceProviderRules {
		f.logger.Info("Using rule-based advisor")
		return llm.NewRulesAdvisor(cfg.Money)
	}
	f.logger.Info("Using OpenAI-compatible advisor", "model", cfg.AdviceModel, "base_url", cfg.AdviceBaseURL)
	return llm.NewOpenAIAdvisor(llm.OpenAIConfig{
		APIKey:  cfg.AdviceAPIKey,
		BaseURL: cfg.AdviceBaseURL,
		Model:   cfg.AdviceModel,
		Timeout: cfg.AdviceTimeout,
	}, f.logger)
}

type seedableStore interface {
	store.Store
	store.Seeder
}

// seedIfEmpty loads the sample data unless the store already holds expenses.
func seedIfEmpty(ctx context.Context, st seedableStore) error {
	items, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing expenses: %w", err)
	}
	if len(items) > 0 {
		return nil
	}
	return st.Seed(ctx, core.SampleExpenses())
}

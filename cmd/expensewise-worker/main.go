package main

import (
	"context"
	"os"
	"time"

	"expensewise/internal/amqp"
	"expensewise/internal/cli"
	"expensewise/internal/config"
	"expensewise/internal/log"
	"expensewise/internal/sheets"
	gsheet "expensewise/internal/sheets/google"
	mem "expensewise/internal/sheets/memory"
	"expensewise/internal/storage"
	"expensewise/internal/store"
	"expensewise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger = logger.WithComponent(log.ComponentWorker)
	logger.Info("Starting expensewise-worker", "dry_run", cfg.WorkerDryRun)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	mirror, err := newMirror(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize sheets mirror", "error", err)
		os.Exit(1)
	}

	var source store.Store
	if cfg.WorkerResyncOnStart {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		source = repo
	}
	syncWorker := worker.NewSyncWorker(mirror, source)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	if source != nil {
		logger.Info("Resyncing mirror from SQLite", "path", cfg.SQLiteDBPath)
		if err := syncWorker.Resync(ctx); err != nil {
			// keep consuming; later events still apply
			logger.Error("Startup resync failed", "error", err)
		}
	}

	err = cli.RunTasks(ctx, logger, 30*time.Second, cli.Task{
		Name: "consumer",
		Run: func(ctx context.Context) error {
			return amqpClient.ConsumeWithRetry(ctx, syncWorker.HandleEvent)
		},
	})
	if err != nil {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func newMirror(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.ExpenseMirror, error) {
	if cfg.WorkerDryRun {
		logger.Info("Dry run: mirroring into memory")
		return mem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		SheetName:     cfg.GoogleSheetName,
		Credentials: gsheet.Credentials{
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			OAuthClientJSON:    cfg.GoogleOAuthClientJSON,
			OAuthClientFile:    cfg.GoogleOAuthClientFile,
			OAuthTokenJSON:     cfg.GoogleOAuthTokenJSON,
			OAuthTokenFile:     cfg.GoogleOAuthTokenFile,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := client.EnsureHeader(ctx); err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"expensewise/internal/backend"
	"expensewise/internal/cache"
	"expensewise/internal/cli"
	"expensewise/internal/config"
	"expensewise/internal/core"
	"expensewise/internal/display"
	"expensewise/internal/log"
	"expensewise/internal/services"
)

var (
	flagDB       string
	flagCurrency string
	flagLocale   string
)

var rootCmd = &cobra.Command{
	Use:          "expensectl",
	Short:        "Expense tracking from the command line",
	Long:         "Record expenses, view the dashboard and ask for budgeting advice against an expensewise database.",
	SilenceUsage: true,
	RunE:         runSummary,
}

func init() {
	cli.LoadEnvFile()
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.SQLiteDBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", cfg.Currency, "ISO currency code for amounts")
	rootCmd.PersistentFlags().StringVar(&flagLocale, "locale", cfg.Locale, "Locale for number formatting")
}

// app is what every subcommand works against.
type app struct {
	cfg       *config.Config
	session   *services.Session
	formatter *display.Formatter
	cleanup   backend.CleanupFunc
}

// openApp wires the services over the --db database. The advisor is the
// rules engine unless ADVICE_API_KEY is set.
func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	cfg.DataBackend = config.BackendSQLite
	cfg.SQLiteDBPath = flagDB
	cfg.AMQPURL = ""
	if cfg.AdviceAPIKey == "" {
		cfg.AdviceProvider = config.AdviceProviderRules
	}

	formatter, err := display.NewFormatter(display.Settings{
		Currency:      flagCurrency,
		Locale:        flagLocale,
		CategoryChart: display.ChartBar,
	})
	if err != nil {
		return nil, err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	bcfg.Money = formatter.Money

	logger, _ := cli.NewLogger("error", "text")
	result, err := backend.NewFactory(logger.Slog()).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", flagDB, err)
	}
	be := result.Backend

	return &app{
		cfg: cfg,
		session: services.NewSession(
			services.NewExpenseService(be.Store, nil),
			services.NewDashboardService(be.Store, cache.NewLRUCache[core.Dashboard](1, time.Minute)),
			services.NewAdviceService(be.Store, be.Advisor, logger.WithComponent(log.ComponentAdvice)),
		),
		formatter: formatter,
		cleanup:   result.Cleanup,
	}, nil
}

// withApp opens the database for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app, out io.Writer) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.cleanup()
	return fn(ctx, a, cmd.OutOrStdout())
}

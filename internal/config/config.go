package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"

	AdviceProviderOpenAI = "openai"
	AdviceProviderRules  = "rules"
)

type Config struct {
	// HTTP Server
	Port            string
	RateLimitPerMin int

	// Logging
	LogLevel  string
	LogFormat string

	// Storage
	DataBackend    string
	SQLiteDBPath   string
	SeedSampleData bool

	// Dashboard cache
	CacheTTL time.Duration

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Advice
	AdviceProvider string
	AdviceAPIKey   string
	AdviceBaseURL  string
	AdviceModel    string
	AdviceTimeout  time.Duration

	// Display
	Currency      string
	Locale        string
	CategoryChart string

	// Google Sheets mirror
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleOAuthClientFile    string
	GoogleOAuthTokenFile     string
	GoogleOAuthClientJSON    string
	GoogleOAuthTokenJSON     string

	// Mirror worker
	WorkerDryRun        bool
	WorkerResyncOnStart bool
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DataBackend:    getEnv("DATA_BACKEND", BackendMemory),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/expensewise.db"),
		SeedSampleData: getEnvBool("SEED_SAMPLE_DATA", false),

		CacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensewise"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		AdviceProvider: getEnv("ADVICE_PROVIDER", AdviceProviderOpenAI),
		AdviceAPIKey:   getEnv("ADVICE_API_KEY", ""),
		AdviceBaseURL:  getEnv("ADVICE_BASE_URL", ""),
		AdviceModel:    getEnv("ADVICE_MODEL", "gpt-4o-mini"),
		AdviceTimeout:  getEnvDuration("ADVICE_TIMEOUT", 60*time.Second),

		Currency:      getEnv("CURRENCY", "USD"),
		Locale:        getEnv("LOCALE", "en-US"),
		CategoryChart: getEnv("CATEGORY_CHART", "bar"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Expenses"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleOAuthClientFile:    getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:     getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON:    getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:     getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),

		WorkerDryRun:        getEnvBool("WORKER_DRY_RUN", false),
		WorkerResyncOnStart: getEnvBool("WORKER_RESYNC_ON_START", false),
	}
}

// AMQPEnabled reports whether change events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate checks the server configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMin < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMin))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	validBackends := []string{BackendMemory, BackendSQLite}
	if c.DataBackend != BackendMemory && c.DataBackend != BackendSQLite {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache TTL %v: must be positive", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.AdviceProvider {
	case AdviceProviderOpenAI:
		// a local OpenAI-compatible server may not need a key
		if c.AdviceAPIKey == "" && c.AdviceBaseURL == "" {
			errors = append(errors, "ADVICE_API_KEY or ADVICE_BASE_URL is required when ADVICE_PROVIDER is openai")
		}
		if c.AdviceModel == "" {
			errors = append(errors, "advice model cannot be empty when ADVICE_PROVIDER is openai")
		}
	case AdviceProviderRules:
	default:
		errors = append(errors, fmt.Sprintf("invalid advice provider '%s': must be openai or rules", c.AdviceProvider))
	}
	if c.AdviceBaseURL != "" {
		if u, err := url.Parse(c.AdviceBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid advice base URL '%s': must be an http(s) URL", c.AdviceBaseURL))
		}
	}
	if c.AdviceTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be at least 1 second", c.AdviceTimeout))
	} else if c.AdviceTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be at most 10 minutes", c.AdviceTimeout))
	}

	if _, err := currency.ParseISO(c.Currency); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be an ISO 4217 code", c.Currency))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}
	if c.CategoryChart != "bar" && c.CategoryChart != "pie" {
		errors = append(errors, fmt.Sprintf("invalid category chart '%s': must be bar or pie", c.CategoryChart))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateWorker checks the settings the sheets mirror worker needs.
func (c *Config) ValidateWorker() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the worker")
	}
	if c.AMQPExchange == "" || c.AMQPQueue == "" {
		errors = append(errors, "AMQP exchange and queue names are required for the worker")
	}
	if c.WorkerResyncOnStart && c.DataBackend != BackendSQLite {
		errors = append(errors, "WORKER_RESYNC_ON_START requires DATA_BACKEND=sqlite")
	}
	if c.WorkerDryRun {
		if len(errors) > 0 {
			return fmt.Errorf("worker configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
		}
		return nil
	}

	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "GOOGLE_SPREADSHEET_ID is required for the worker")
	}
	if c.GoogleSheetName == "" {
		errors = append(errors, "GOOGLE_SHEET_NAME is required for the worker")
	}

	hasServiceAccount := c.GoogleServiceAccountJSON != "" || c.GoogleServiceAccountFile != ""
	hasClient := c.GoogleOAuthClientJSON != "" || c.GoogleOAuthClientFile != ""
	hasToken := c.GoogleOAuthTokenJSON != "" || c.GoogleOAuthTokenFile != ""
	if !hasServiceAccount && !(hasClient && hasToken) {
		errors = append(errors, "either a Google service account or both OAuth client and token must be provided")
	}

	for _, f := range []struct{ name, path string }{
		{"service account", c.GoogleServiceAccountFile},
		{"OAuth client", c.GoogleOAuthClientFile},
		{"OAuth token", c.GoogleOAuthTokenFile},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google %s file does not exist: %s", f.name, f.path))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("worker configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

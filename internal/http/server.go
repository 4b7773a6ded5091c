package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"expensewise/internal/display"
	"expensewise/internal/log"
	"expensewise/internal/middleware/ratelimit"
	"expensewise/internal/middleware/security"
	"expensewise/internal/middleware/trace"
	"expensewise/internal/services"
)

// Options configures NewServer. Session and Formatter are required.
type Options struct {
	Addr            string
	Session         *services.Session
	Formatter       *display.Formatter
	Logger          *log.Logger
	RateLimitPerMin int
	// WriteTimeout must exceed the advice timeout.
	WriteTimeout time.Duration
	// Checks are run by /readyz, keyed by dependency name.
	Checks map[string]func(context.Context) error
}

type appMetrics struct {
	expensesCreated atomic.Int64
	expensesDeleted atomic.Int64
	listsCleared    atomic.Int64
	adviceRequests  atomic.Int64
	adviceFailures  atomic.Int64
	uptime          time.Time
}

type Server struct {
	http.Server
	session   *services.Session
	formatter *display.Formatter
	logger    *log.Logger
	logs      *log.StructuredLogger
	checks    map[string]func(context.Context) error
	now       func() time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 90 * time.Second
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter, _ = display.NewFormatter(display.DefaultSettings())
	}

	limitCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMin > 0 {
		limitCfg.RequestsPerMinute = opts.RateLimitPerMin
	}

	s := &Server{
		session:          opts.Session,
		formatter:        formatter,
		logger:           logger,
		logs:             log.NewStructuredLogger(logger),
		checks:           opts.Checks,
		now:              time.Now,
		rateLimiter:      ratelimit.NewLimiter(limitCfg),
		securityDetector: security.NewDetector(logger),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses", s.handleClearExpenses)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("POST /api/expenses/sort", s.handleSortExpenses)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/advice", s.handleAdviceState)
	mux.HandleFunc("POST /api/advice", s.handleRequestAdvice)

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = log.RequestIDMiddleware(trace.RequestID)(h)
	h = log.Middleware(logger)(h)
	h = s.securityDetector.Middleware(h)
	h = s.traceMiddleware.Middleware(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Slow Down", "Too many requests. Please try again later.").Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

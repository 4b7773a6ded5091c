package log

import (
	"context"
	"log/slog"
	"net/http"
)

type ContextKey string

const LoggerContextKey ContextKey = "logger"

// Middleware stores logger in each request context.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request logger, or one over slog.Default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// RequestIDMiddleware adds the request id to the context logger.
func RequestIDMiddleware(extractRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := FromContext(r.Context()).With(FieldRequestID, extractRequestID(r))
			ctx := context.WithValue(r.Context(), LoggerContextKey, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogExpenseCreated records a successful create.
func (sl *StructuredLogger) LogExpenseCreated(ctx context.Context, id, category string, amount float64, date string) {
	fields := NewFields().
		WithExpense(id, category, amount, date).
		WithOperation(OpCreate)
	sl.logger.WithComponent(ComponentExpense).InfoContext(ctx, "Expense created", fields.ToSlice()...)
}

// LogAdviceCompleted records the outcome of an advice request.
func (sl *StructuredLogger) LogAdviceCompleted(ctx context.Context, expenses int, income float64, durationMs int64, err error) {
	fields := NewFields().
		WithOperation(OpAdvise).
		WithError(err)
	fields[FieldCount] = expenses
	fields[FieldIncome] = income
	fields[FieldDuration] = durationMs
	fields[FieldSuccess] = err == nil

	l := sl.logger.WithComponent(ComponentAdvice)
	if err != nil {
		l.WarnContext(ctx, "Advice request failed", fields.ToSlice()...)
		return
	}
	l.InfoContext(ctx, "Advice request completed", fields.ToSlice()...)
}

// LogError logs err with component and operation context.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields.WithError(err).WithOperation(operation)
	sl.logger.WithComponent(component).ErrorContext(ctx, msg, fields.ToSlice()...)
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}).Write(w)
}

// handleReady runs every dependency check and reports 503 if any fails.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any, len(s.checks)+2)

	if _, err := s.session.Expenses.ListExpenses(ctx, s.session.SortState()); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			checks[name] = fmt.Sprintf("failed: %v", err)
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	stats := s.session.Dashboard.Stats()
	checks["cache"] = map[string]any{
		"entries": stats.Entries,
		"status":  "ok",
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	cacheStats := s.session.Dashboard.Stats()
	adviceState := s.session.Advice.State()

	loading := 0
	if adviceState.Loading {
		loading = 1
	}

	metrics := []struct {
		name, help, kind string
		value            any
	}{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"http_error_responses_total", "HTTP responses with status >= 400", "counter", traceMetrics.ErrorResponses},
		{"http_average_response_seconds", "Mean response time", "gauge", fmt.Sprintf("%.6f", traceMetrics.AverageResponseTime.Seconds())},
		{"expenses_created_total", "Expenses created", "counter", s.appMetrics.expensesCreated.Load()},
		{"expenses_deleted_total", "Expenses deleted", "counter", s.appMetrics.expensesDeleted.Load()},
		{"expense_list_clears_total", "Times the list was cleared", "counter", s.appMetrics.listsCleared.Load()},
		{"advice_requests_total", "Advice requests sent to the advisor", "counter", s.appMetrics.adviceRequests.Load()},
		{"advice_failures_total", "Advice requests that failed", "counter", s.appMetrics.adviceFailures.Load()},
		{"advice_in_flight", "1 while an advice request is pending", "gauge", loading},
		{"dashboard_cache_hits_total", "Dashboard cache hits", "counter", cacheStats.Hits},
		{"dashboard_cache_misses_total", "Dashboard cache misses", "counter", cacheStats.Misses},
		{"dashboard_cache_entries", "Current dashboard cache entries", "gauge", cacheStats.Entries},
		{"rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateLimitMetrics.TotalHits},
		{"active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount},
		{"suspicious_requests_total", "Suspicious requests detected", "counter", securityMetrics.SuspiciousRequests},
		{"uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", time.Since(s.appMetrics.uptime).Seconds())},
	}
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].name < metrics[j].name })

	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", m.name, m.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", m.name, m.kind)
		fmt.Fprintf(w, "%s %v\n\n", m.name, m.value)
	}
}

package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensewise/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf, Format: "json"})
	m := NewMiddleware(logger, func(*http.Request) string { return "10.0.0.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("request id = %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("header id %q != context id %q", rec.Header().Get(HeaderRequestID), seen)
	}
	if !strings.Contains(buf.String(), `"status_code":418`) {
		t.Fatalf("completion log missing status: %s", buf.String())
	}

	got := m.GetMetrics()
	if got.TotalRequests != 1 || got.ErrorResponses != 1 {
		t.Fatalf("metrics = %+v", got)
	}
}

func TestMiddlewareKeepsUpstreamRequestID(t *testing.T) {
	m := NewMiddleware(nil, nil)
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc123" {
		t.Fatalf("request id = %q, want abc123", seen)
	}
}

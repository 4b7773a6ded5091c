package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"expensewise/internal/advice"
	"expensewise/internal/cache"
	"expensewise/internal/core"
	"expensewise/internal/display"
	"expensewise/internal/log"
	"expensewise/internal/services"
	"expensewise/internal/store/memory"
)

type testEnv struct {
	srv   *Server
	store *memory.Store
	calls *atomic.Int32
}

func newTestServer(t *testing.T, adv advice.AdvisorFunc, opts ...func(*Options)) *testEnv {
	t.Helper()
	logger := log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
	st := memory.NewSeeded(core.SampleExpenses())

	var calls atomic.Int32
	counted := advice.AdvisorFunc(func(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
		calls.Add(1)
		return adv(ctx, req)
	})

	session := services.NewSession(
		services.NewExpenseService(st, nil),
		services.NewDashboardService(st, cache.NewLRUCache[core.Dashboard](10, time.Minute)),
		services.NewAdviceService(st, counted, logger),
	)
	formatter, err := display.NewFormatter(display.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	o := Options{Addr: ":0", Session: session, Formatter: formatter, Logger: logger}
	for _, fn := range opts {
		fn(&o)
	}
	srv := NewServer(o)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: st, calls: &calls}
}

func okAdvisor(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
	return core.Advice{Summary: "Travel dominates.", Recommendations: []string{"Book trips earlier"}}, nil
}

func (e *testEnv) do(t *testing.T, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func ids(v expenseListView) string {
	out := make([]string, len(v.Expenses))
	for i, e := range v.Expenses {
		out[i] = e.ID
	}
	return strings.Join(out, ",")
}

func TestHealthReadyAndMetrics(t *testing.T) {
	calls := 0
	env := newTestServer(t, okAdvisor, func(o *Options) {
		o.Checks = map[string]func(context.Context) error{
			"broker": func(context.Context) error {
				calls++
				if calls > 1 {
					return errors.New("down")
				}
				return nil
			},
		}
	})

	if rec := env.do(t, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec := env.do(t, http.MethodGet, "/readyz", "", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "failed: down") {
		t.Fatalf("readyz with failing check: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rec.Code)
	}
	for _, name := range []string{"http_requests_total", "dashboard_cache_hits_total", "advice_in_flight 0", "expenses_created_total 0"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Fatalf("metrics missing %q:\n%s", name, rec.Body.String())
		}
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers not applied")
	}
}

func TestCategories(t *testing.T) {
	env := newTestServer(t, okAdvisor)
	rec := env.do(t, http.MethodGet, "/api/categories", "", "")
	got := decode[map[string][]string](t, rec)["categories"]
	if len(got) != 8 || got[0] != "Food" || got[7] != "Other" {
		t.Fatalf("categories = %v", got)
	}
}

func TestListExpenses(t *testing.T) {
	env := newTestServer(t, okAdvisor)

	v := decode[expenseListView](t, env.do(t, http.MethodGet, "/api/expenses", "", ""))
	if v.Count != 8 || ids(v) != "1,2,3,4,5,6,7,8" {
		t.Fatalf("default list = %s (count %d)", ids(v), v.Count)
	}
	if v.Sort.Key != "date" || v.Sort.Direction != "desc" {
		t.Fatalf("default sort = %+v", v.Sort)
	}
	if v.Expenses[0].AmountDisplay != "$25.50" {
		t.Fatalf("amount display = %q", v.Expenses[0].AmountDisplay)
	}

	v = decode[expenseListView](t, env.do(t, http.MethodGet, "/api/expenses?sort=amount&dir=desc", "", ""))
	if v.Expenses[0].ID != "7" || v.Sort.Key != "amount" {
		t.Fatalf("override sort: first=%s sort=%+v", v.Expenses[0].ID, v.Sort)
	}
	// the override does not change the session ordering
	v = decode[expenseListView](t, env.do(t, http.MethodGet, "/api/expenses", "", ""))
	if v.Sort.Key != "date" {
		t.Fatalf("session sort changed by query override: %+v", v.Sort)
	}

	if rec := env.do(t, http.MethodGet, "/api/expenses?sort=colour", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort key status=%d", rec.Code)
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	env := newTestServer(t, okAdvisor)
	before := env.store.Version()

	invalid := []struct {
		name, contentType, body, wantTitle string
	}{
		{"zero amount", "application/json", `{"description":"Lunch","amount":0,"category":"Food","date":"2024-07-16"}`, "Invalid Amount"},
		{"negative amount", "application/x-www-form-urlencoded", "description=Lunch&amount=-5&category=Food", "Invalid Amount"},
		{"short description", "application/json", `{"description":"ab","amount":"5","category":"Food"}`, "Invalid Description"},
		{"unknown category", "application/json", `{"description":"Lunch","amount":"5","category":"Snacks"}`, "Invalid Category"},
		{"bad date", "application/json", `{"description":"Lunch","amount":"5","category":"Food","date":"16/07/2024"}`, "Invalid Date"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/expenses", tt.contentType, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if got := decode[ErrorBody](t, rec).Error.Title; got != tt.wantTitle {
				t.Fatalf("title = %q, want %q", got, tt.wantTitle)
			}
			if !strings.Contains(rec.Header().Get("HX-Trigger"), "show-notification") {
				t.Fatalf("missing notification trigger")
			}
		})
	}
	if env.store.Version() != before {
		t.Fatalf("invalid input mutated the store")
	}

	if rec := env.do(t, http.MethodPost, "/api/expenses", "application/json", `{"description":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON status=%d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/expenses", "application/x-www-form-urlencoded",
		"description=Groceries&amount=12,50&category=food&date=2024-07-16")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[expenseView](t, rec)
	if created.ID == "" || created.Amount != 12.5 || created.Category != "Food" || created.Date != "2024-07-16" {
		t.Fatalf("created = %+v", created)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "expense:created") || !strings.Contains(trigger, "dashboard:refresh") {
		t.Fatalf("HX-Trigger = %s", trigger)
	}

	items, _ := env.store.List(context.Background())
	if len(items) != 9 || items[0].ID != created.ID {
		t.Fatalf("new expense not prepended: first=%s len=%d", items[0].ID, len(items))
	}
}

func TestCreateExpenseDefaultsToToday(t *testing.T) {
	env := newTestServer(t, okAdvisor)
	env.srv.now = func() time.Time { return time.Date(2024, 8, 3, 15, 0, 0, 0, time.UTC) }

	rec := env.do(t, http.MethodPost, "/api/expenses", "application/json",
		`{"description":"Bus ticket","amount":2.4,"category":"Transport"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := decode[expenseView](t, rec).Date; got != "2024-08-03" {
		t.Fatalf("date = %s", got)
	}
}

func TestDeleteAndClear(t *testing.T) {
	env := newTestServer(t, okAdvisor)

	rec := env.do(t, http.MethodDelete, "/api/expenses/3", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "expense:deleted") {
		t.Fatalf("missing delete trigger")
	}
	items, _ := env.store.List(context.Background())
	if len(items) != 7 {
		t.Fatalf("len after delete = %d", len(items))
	}

	if rec := env.do(t, http.MethodDelete, "/api/expenses/unknown", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete unknown status=%d", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/api/expenses", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status=%d", rec.Code)
	}
	v := decode[expenseListView](t, env.do(t, http.MethodGet, "/api/expenses", "", ""))
	if v.Count != 0 || v.Expenses == nil {
		t.Fatalf("after clear: %+v", v)
	}

	if rec := env.do(t, http.MethodPut, "/api/expenses", "", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT status=%d", rec.Code)
	}
}

func TestSortToggle(t *testing.T) {
	env := newTestServer(t, okAdvisor)

	steps := []struct {
		key, wantDir, wantFirst string
	}{
		{"amount", "asc", "4"},
		{"amount", "desc", "7"},
		{"amount", "asc", "4"},
		{"description", "asc", "4"},
	}
	for _, s := range steps {
		rec := env.do(t, http.MethodPost, "/api/expenses/sort", "application/json", `{"key":"`+s.key+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("sort %s: status=%d", s.key, rec.Code)
		}
		v := decode[expenseListView](t, rec)
		if v.Sort.Direction != s.wantDir || v.Expenses[0].ID != s.wantFirst {
			t.Fatalf("sort %s: dir=%s first=%s, want %s/%s", s.key, v.Sort.Direction, v.Expenses[0].ID, s.wantDir, s.wantFirst)
		}
	}

	if rec := env.do(t, http.MethodPost, "/api/expenses/sort", "application/json", `{"key":"colour"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad key status=%d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	env := newTestServer(t, okAdvisor)

	v := decode[dashboardView](t, env.do(t, http.MethodGet, "/api/dashboard", "", ""))
	if v.Count != 8 || v.Chart != "bar" || v.Settings.Currency != "USD" {
		t.Fatalf("dashboard header = %+v", v)
	}
	if len(v.Daily) != core.DailyWindow {
		t.Fatalf("daily entries = %d", len(v.Daily))
	}
	if len(v.Categories) != 7 || v.Categories[0].Category != "Travel" || v.Categories[0].TotalDisplay != "$450.00" {
		t.Fatalf("categories = %+v", v.Categories)
	}
	var share float64
	for _, c := range v.Categories {
		share += c.Share
	}
	if share < 0.999 || share > 1.001 {
		t.Fatalf("shares sum to %f", share)
	}

	// second read hits the cache, a mutation misses it
	env.do(t, http.MethodGet, "/api/dashboard", "", "")
	env.do(t, http.MethodDelete, "/api/expenses/7", "", "")
	v = decode[dashboardView](t, env.do(t, http.MethodGet, "/api/dashboard", "", ""))
	if v.Categories[0].Category == "Travel" {
		t.Fatalf("dashboard served stale data after delete")
	}
	stats := env.srv.session.Dashboard.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Fatalf("cache stats = %+v", stats)
	}
}

func TestAdviceFlow(t *testing.T) {
	env := newTestServer(t, okAdvisor)

	for _, body := range []string{`{"income":""}`, `{"income":"abc"}`, `{"income":-100}`, `{"income":0}`, `{}`} {
		rec := env.do(t, http.MethodPost, "/api/advice", "application/json", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status=%d", body, rec.Code)
		}
	}
	if env.calls.Load() != 0 {
		t.Fatalf("advisor called for invalid income")
	}

	for _, body := range []string{`{"income":5000}`, `{"income":"5000"}`} {
		rec := env.do(t, http.MethodPost, "/api/advice", "application/json", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", body, rec.Code, rec.Body.String())
		}
		got := decode[adviceView](t, rec)
		if got.Summary == "" || len(got.Recommendations) != 1 {
			t.Fatalf("advice = %+v", got)
		}
	}
	if rec := env.do(t, http.MethodPost, "/api/advice", "application/x-www-form-urlencoded", "income=4200.50"); rec.Code != http.StatusOK {
		t.Fatalf("form income status=%d", rec.Code)
	}
	if env.calls.Load() != 3 {
		t.Fatalf("advisor calls = %d", env.calls.Load())
	}

	state := decode[services.AdviceState](t, env.do(t, http.MethodGet, "/api/advice", "", ""))
	if state.Loading || state.Result == nil {
		t.Fatalf("state = %+v", state)
	}
}

func TestAdviceFailure(t *testing.T) {
	env := newTestServer(t, func(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
		return core.Advice{}, errors.New("upstream 500")
	})

	rec := env.do(t, http.MethodPost, "/api/advice", "application/json", `{"income":3000}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", rec.Code)
	}
	body := decode[ErrorBody](t, rec)
	if body.Error.Message != "Failed to get AI recommendations. Please try again." {
		t.Fatalf("message = %q", body.Error.Message)
	}

	state := env.srv.session.Advice.State()
	if state.Loading || state.Result != nil || state.Notice == nil || state.Notice.Kind != services.NoticeService {
		t.Fatalf("state = %+v", state)
	}
}

func TestAdviceInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	env := newTestServer(t, func(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
		close(entered)
		<-release
		return okAdvisor(ctx, req)
	})

	done := make(chan int)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/advice", bytes.NewBufferString(`{"income":1000}`))
		rec := httptest.NewRecorder()
		env.srv.Handler.ServeHTTP(rec, req)
		done <- rec.Code
	}()
	<-entered

	rec := env.do(t, http.MethodPost, "/api/advice", "application/json", `{"income":1000}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second request status=%d", rec.Code)
	}
	close(release)
	if code := <-done; code != http.StatusOK {
		t.Fatalf("first request status=%d", code)
	}
	if env.calls.Load() != 1 {
		t.Fatalf("advisor calls = %d", env.calls.Load())
	}
}

func TestRateLimitOnPost(t *testing.T) {
	env := newTestServer(t, okAdvisor, func(o *Options) { o.RateLimitPerMin = 2 })
	body := `{"key":"amount"}`
	for i := 0; i < 2; i++ {
		if rec := env.do(t, http.MethodPost, "/api/expenses/sort", "application/json", body); rec.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rec.Code)
		}
	}
	rec := env.do(t, http.MethodPost, "/api/expenses/sort", "application/json", body)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("status=%d retry-after=%q", rec.Code, rec.Header().Get("Retry-After"))
	}
	if rec := env.do(t, http.MethodGet, "/api/expenses", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("GET limited: status=%d", rec.Code)
	}
}

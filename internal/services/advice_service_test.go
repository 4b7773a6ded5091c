package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"expensewise/internal/core"
	"expensewise/internal/log"
	"expensewise/internal/store/memory"
)

// spyAdvisor counts calls and records the last request.
type spyAdvisor struct {
	calls   atomic.Int32
	last    core.AdviceRequest
	result  core.Advice
	err     error
	block   chan struct{}
	entered chan struct{}
	panics  bool
}

func (a *spyAdvisor) Recommend(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
	a.calls.Add(1)
	a.last = req
	if a.entered != nil {
		close(a.entered)
	}
	if a.block != nil {
		<-a.block
	}
	if a.panics {
		panic("model exploded")
	}
	return a.result, a.err
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Output: &bytes.Buffer{}})
}

func goodAdvice() core.Advice {
	return core.Advice{Summary: "Travel dominates.", Recommendations: []string{"Book trips earlier"}}
}

func TestAdviceService_InvalidIncomeNeverCallsAdvisor(t *testing.T) {
	spy := &spyAdvisor{result: goodAdvice()}
	svc := NewAdviceService(memory.NewSeeded(core.SampleExpenses()), spy, quietLogger())

	for _, raw := range []string{"", "abc", "0", "-5", "NaN"} {
		if _, err := svc.Request(context.Background(), raw); !errors.Is(err, core.ErrInvalidIncome) {
			t.Fatalf("Request(%q) error = %v, want ErrInvalidIncome", raw, err)
		}
	}
	if n := spy.calls.Load(); n != 0 {
		t.Fatalf("advisor called %d times for invalid income", n)
	}
	st := svc.State()
	if st.Loading || st.Notice == nil || st.Notice.Kind != NoticeValidation {
		t.Fatalf("expected validation notice, got %+v", st)
	}
}

func TestAdviceService_SuccessBuildsRequestFromSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, _ = st.Add(ctx, core.Expense{ID: "a", Date: core.NewDate(2025, 4, 2), Category: core.Food, Amount: 700, Description: "Groceries"})
	_, _ = st.Add(ctx, core.Expense{ID: "b", Date: core.NewDate(2025, 4, 9), Category: core.Travel, Amount: 500, Description: "Weekend trip"})

	spy := &spyAdvisor{result: goodAdvice()}
	svc := NewAdviceService(st, spy, quietLogger())

	got, err := svc.Request(ctx, "1000")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got.Summary != "Travel dominates." {
		t.Fatalf("unexpected advice %+v", got)
	}
	if spy.calls.Load() != 1 || spy.last.Income != 1000 || spy.last.TotalSpent() != 1200 || len(spy.last.Expenses) != 2 {
		t.Fatalf("unexpected request %+v", spy.last)
	}
	state := svc.State()
	if state.Loading || state.Result == nil || state.Notice != nil {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestAdviceService_FailureClearsLoadingAndNotifies(t *testing.T) {
	spy := &spyAdvisor{err: errors.New("503 from upstream")}
	svc := NewAdviceService(memory.NewSeeded(core.SampleExpenses()), spy, quietLogger())

	_, err := svc.Request(context.Background(), "2500")
	if !errors.Is(err, ErrAdviceUnavailable) {
		t.Fatalf("expected ErrAdviceUnavailable, got %v", err)
	}
	st := svc.State()
	if st.Loading {
		t.Fatalf("loading must clear on failure")
	}
	if st.Result != nil {
		t.Fatalf("no result expected on failure")
	}
	if st.Notice == nil || st.Notice.Kind != NoticeService || st.Notice.Title != "Error" {
		t.Fatalf("expected service notice, got %+v", st.Notice)
	}

	// no automatic retry
	if spy.calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", spy.calls.Load())
	}
}

func TestAdviceService_MalformedAndPanickingAdvisor(t *testing.T) {
	svc := NewAdviceService(memory.New(), &spyAdvisor{result: core.Advice{}}, quietLogger())
	if _, err := svc.Request(context.Background(), "100"); !errors.Is(err, core.ErrMalformedAdvice) {
		t.Fatalf("expected malformed advice error, got %v", err)
	}

	svc = NewAdviceService(memory.New(), &spyAdvisor{panics: true}, quietLogger())
	if _, err := svc.Request(context.Background(), "100"); !errors.Is(err, ErrAdviceUnavailable) {
		t.Fatalf("expected ErrAdviceUnavailable after panic, got %v", err)
	}
	if svc.State().Loading {
		t.Fatalf("loading must clear after panic")
	}
}

func TestAdviceService_SingleInFlightAndSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memory.NewSeeded(core.SampleExpenses())
	spy := &spyAdvisor{result: goodAdvice(), block: make(chan struct{}), entered: make(chan struct{})}
	svc := NewAdviceService(st, spy, quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Request(ctx, "3000")
		done <- err
	}()
	<-spy.entered

	if !svc.State().Loading {
		t.Fatalf("expected loading while pending")
	}
	if _, err := svc.Request(ctx, "3000"); !errors.Is(err, ErrAdviceInFlight) {
		t.Fatalf("expected ErrAdviceInFlight, got %v", err)
	}

	// edits after submission do not reach the pending request
	_ = st.Clear(ctx)
	close(spy.block)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("pending request failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pending request did not finish")
	}
	if len(spy.last.Expenses) != 8 {
		t.Fatalf("request should carry the submission snapshot, got %d expenses", len(spy.last.Expenses))
	}
	if spy.calls.Load() != 1 {
		t.Fatalf("expected exactly one advisor call, got %d", spy.calls.Load())
	}
}

func TestAdviceService_NewRequestClearsPreviousResult(t *testing.T) {
	spy := &spyAdvisor{result: goodAdvice()}
	svc := NewAdviceService(memory.New(), spy, quietLogger())
	if _, err := svc.Request(context.Background(), "100"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	spy.result, spy.err = core.Advice{}, errors.New("down")
	_, _ = svc.Request(context.Background(), "100")
	if svc.State().Result != nil {
		t.Fatalf("previous result should be cleared when a new request starts")
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"expensewise/internal/advice"
	"expensewise/internal/core"
	"expensewise/internal/log"
	"expensewise/internal/store"
)

var (
	ErrAdviceInFlight    = errors.New("an advice request is already in progress")
	ErrAdviceUnavailable = errors.New("advice service unavailable")
)

type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeService    NoticeKind = "service"
)

// Notice is a user-visible notification about the last advice attempt.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// AdviceState is what the advice panel shows.
type AdviceState struct {
	Loading     bool         `json:"loading"`
	Result      *core.Advice `json:"result,omitempty"`
	Notice      *Notice      `json:"notice,omitempty"`
	RequestedAt time.Time    `json:"requested_at,omitempty"`
}

var (
	invalidIncomeNotice = Notice{
		Kind:    NoticeValidation,
		Title:   "Invalid Income",
		Message: "Please enter a valid monthly income.",
	}
	serviceFailureNotice = Notice{
		Kind:    NoticeService,
		Title:   "Error",
		Message: "Failed to get AI recommendations. Please try again.",
	}
)

// AdviceService runs at most one advice request at a time against a
// snapshot of the expense list taken when the request starts.
type AdviceService struct {
	store   store.Store
	advisor advice.Advisor
	logs    *log.StructuredLogger
	now     func() time.Time

	mu    sync.Mutex
	state AdviceState
}

func NewAdviceService(st store.Store, advisor advice.Advisor, logger *log.Logger) *AdviceService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AdviceService{
		store:   st,
		advisor: advisor,
		logs:    log.NewStructuredLogger(logger),
		now:     time.Now,
	}
}

// Request validates rawIncome and asks the advisor for recommendations.
// Invalid income never reaches the advisor. A second call while one is
// pending returns ErrAdviceInFlight.
func (s *AdviceService) Request(ctx context.Context, rawIncome string) (core.Advice, error) {
	income, err := core.ParseIncome(rawIncome)
	if err != nil {
		s.setNotice(invalidIncomeNotice)
		return core.Advice{}, err
	}
	return s.RequestIncome(ctx, income)
}

// RequestIncome is Request for an already numeric income.
func (s *AdviceService) RequestIncome(ctx context.Context, income float64) (core.Advice, error) {
	if err := core.ValidateIncome(income); err != nil {
		s.setNotice(invalidIncomeNotice)
		return core.Advice{}, err
	}
	if !s.begin() {
		return core.Advice{}, ErrAdviceInFlight
	}

	started := s.now()
	req, err := s.snapshot(ctx, income)
	var result core.Advice
	if err == nil {
		result, err = s.call(ctx, req)
	}
	s.logs.LogAdviceCompleted(ctx, len(req.Expenses), income, s.now().Sub(started).Milliseconds(), err)

	if err != nil {
		s.finish(nil, &serviceFailureNotice)
		return core.Advice{}, fmt.Errorf("%w: %w", ErrAdviceUnavailable, err)
	}
	s.finish(&result, nil)
	return result, nil
}

// State returns a copy of the current advice state.
func (s *AdviceService) State() AdviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Result != nil {
		r := *st.Result
		r.Recommendations = append([]string(nil), r.Recommendations...)
		st.Result = &r
	}
	if st.Notice != nil {
		n := *st.Notice
		st.Notice = &n
	}
	return st
}

// begin marks a request as loading and clears the previous outcome.
func (s *AdviceService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return false
	}
	s.state = AdviceState{Loading: true, RequestedAt: s.now()}
	return true
}

func (s *AdviceService) finish(result *core.Advice, notice *Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Result = result
	if notice != nil {
		n := *notice
		s.state.Notice = &n
	}
}

func (s *AdviceService) setNotice(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notice = &n
}

func (s *AdviceService) snapshot(ctx context.Context, income float64) (core.AdviceRequest, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("snapshot expenses: %w", err)
	}
	return core.BuildAdviceRequest(items, income), nil
}

// call shields the service from advisor panics.
func (s *AdviceService) call(ctx context.Context, req core.AdviceRequest) (out core.Advice, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = core.Advice{}, fmt.Errorf("advisor panic: %v", r)
		}
	}()
	out, err = s.advisor.Recommend(ctx, req)
	if err != nil {
		return core.Advice{}, err
	}
	if err := out.Validate(); err != nil {
		return core.Advice{}, err
	}
	return out, nil
}

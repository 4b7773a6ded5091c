package services

import (
	"context"
	"sync"

	"expensewise/internal/core"
)

// Session holds the state one dashboard client works against: the
// services and the current transactions ordering.
type Session struct {
	Expenses  *ExpenseService
	Dashboard *DashboardService
	Advice    *AdviceService

	mu   sync.Mutex
	sort core.SortState
}

func NewSession(expenses *ExpenseService, dashboard *DashboardService, adv *AdviceService) *Session {
	return &Session{
		Expenses:  expenses,
		Dashboard: dashboard,
		Advice:    adv,
		sort:      core.DefaultSortState(),
	}
}

func (s *Session) SortState() core.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// RequestSort applies a column header click and returns the new ordering.
func (s *Session) RequestSort(key core.SortKey) core.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Request(key)
	return s.sort
}

// Transactions lists expenses in the session's current ordering.
func (s *Session) Transactions(ctx context.Context) ([]core.Expense, core.SortState, error) {
	st := s.SortState()
	items, err := s.Expenses.ListExpenses(ctx, st)
	return items, st, err
}

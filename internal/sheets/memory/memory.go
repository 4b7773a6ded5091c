// Package memory is an in-process ExpenseMirror for dry runs and tests.
package memory

import (
	"context"
	"sync"

	"expensewise/internal/core"
)

type Mirror struct {
	mu    sync.Mutex
	items []core.Expense
}

func New() *Mirror {
	return &Mirror{}
}

// AppendExpense adds e unless its id is already mirrored.
func (m *Mirror) AppendExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == e.ID {
			return nil
		}
	}
	m.items = append(m.items, e)
	return nil
}

func (m *Mirror) DeleteExpense(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.items[:0]
	for _, it := range m.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	m.items = out
	return nil
}

func (m *Mirror) ClearExpenses(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

// Rows returns the mirrored expenses in append order.
func (m *Mirror) Rows() []core.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Expense(nil), m.items...)
}

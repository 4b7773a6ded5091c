package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"expensewise/internal/core"
)

// Store keeps the expense list in process memory. Operations never fail.
type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	version uint64
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store holding a copy of items in the given order.
func NewSeeded(items []core.Expense) *Store {
	s := New()
	s.items = append([]core.Expense(nil), items...)
	return s
}

// Add prepends e and returns it with its id.
func (s *Store) Add(_ context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Expense{e}, s.items...)
	s.version++
	return e, nil
}

// Remove drops every expense with the given id.
func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items[:0:0]
	for _, e := range s.items {
		if e.ID != id {
			out = append(out, e)
		}
	}
	s.items = out
	s.version++
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.version++
	return nil
}

func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...), nil
}

// Seed replaces the contents with items, keeping their order.
func (s *Store) Seed(_ context.Context, items []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Expense(nil), items...)
	s.version++
	return nil
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

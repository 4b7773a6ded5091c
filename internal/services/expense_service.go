package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"expensewise/internal/amqp"
	"expensewise/internal/core"
	"expensewise/internal/store"
)

// EventPublisher delivers expense change events to other processes.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev amqp.ExpenseEvent) error
}

// ExpenseService validates and applies changes to the expense list, then
// announces them. Publishing is best effort.
type ExpenseService struct {
	store     store.Store
	publisher EventPublisher
	newID     func() string
}

// NewExpenseService wires a store and an optional publisher (nil disables events).
func NewExpenseService(st store.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:     st,
		publisher: publisher,
		newID:     uuid.NewString,
	}
}

// CreateExpense validates in, assigns a fresh id and prepends the expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}
	e, err := s.store.Add(ctx, in.Expense(s.newID()))
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, amqp.NewCreatedEvent(e))
	return e, nil
}

// DeleteExpense removes id. Unknown ids are not an error.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publish(ctx, amqp.NewDeletedEvent(id))
	return nil
}

// ClearExpenses empties the list.
func (s *ExpenseService) ClearExpenses(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	s.publish(ctx, amqp.NewClearedEvent())
	return nil
}

// ListExpenses returns the list ordered by sort. Storage order is untouched.
func (s *ExpenseService) ListExpenses(ctx context.Context, sort core.SortState) ([]core.Expense, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return sort.Apply(items), nil
}

func (s *ExpenseService) publish(ctx context.Context, ev amqp.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, ev); err != nil {
		// the local change already succeeded
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"type", ev.Type, "id", ev.ID, "error", err)
	}
}

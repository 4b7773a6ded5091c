// Package worker applies expense change events to the spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"expensewise/internal/amqp"
	"expensewise/internal/core"
	"expensewise/internal/sheets"
	"expensewise/internal/store"
)

// SyncWorker keeps a sheets.ExpenseMirror in step with the expense list.
type SyncWorker struct {
	mirror sheets.ExpenseMirror
	source store.Store
}

// NewSyncWorker builds a worker for mirror. source may be nil, in which
// case Resync is unavailable and only events are applied.
func NewSyncWorker(mirror sheets.ExpenseMirror, source store.Store) *SyncWorker {
	return &SyncWorker{mirror: mirror, source: source}
}

// HandleEvent applies one change event to the mirror.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev amqp.ExpenseEvent) error {
	slog.InfoContext(ctx, "Processing expense event", "type", ev.Type, "id", ev.ID)

	switch ev.Type {
	case amqp.EventExpenseCreated:
		if ev.Expense == nil {
			return fmt.Errorf("%s event without expense", ev.Type)
		}
		e, err := ev.Expense.ToExpense()
		if err != nil {
			return fmt.Errorf("decode expense: %w", err)
		}
		if err := w.mirror.AppendExpense(ctx, e); err != nil {
			return fmt.Errorf("append expense to mirror: %w", err)
		}
		slog.InfoContext(ctx, "Successfully mirrored expense",
			"id", e.ID,
			"category", e.Category.String(),
			"amount", e.Amount)

	case amqp.EventExpenseDeleted:
		if err := w.mirror.DeleteExpense(ctx, ev.ID); err != nil {
			return fmt.Errorf("delete expense from mirror: %w", err)
		}
		slog.InfoContext(ctx, "Successfully deleted mirrored expense", "id", ev.ID)

	case amqp.EventExpensesCleared:
		if err := w.mirror.ClearExpenses(ctx); err != nil {
			return fmt.Errorf("clear mirror: %w", err)
		}
		slog.InfoContext(ctx, "Successfully cleared mirror")

	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// Resync rebuilds the mirror from the source store, oldest expense first.
// It recovers from events lost while the worker was down.
func (w *SyncWorker) Resync(ctx context.Context) error {
	if w.source == nil {
		return fmt.Errorf("resync: no source store configured")
	}
	items, err := w.source.List(ctx)
	if err != nil {
		return fmt.Errorf("resync: list expenses: %w", err)
	}
	if err := w.mirror.ClearExpenses(ctx); err != nil {
		return fmt.Errorf("resync: clear mirror: %w", err)
	}

	// the store lists newest first
	ordered := make([]core.Expense, len(items))
	for i, e := range items {
		ordered[len(items)-1-i] = e
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date.Time) })

	synced, failed := 0, 0
	for _, e := range ordered {
		if err := w.mirror.AppendExpense(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror expense during resync", "id", e.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Resync completed",
		"total", len(items),
		"synced", synced,
		"errors", failed)
	if failed > 0 {
		return fmt.Errorf("resync: %d of %d expenses failed", failed, len(items))
	}
	return nil
}

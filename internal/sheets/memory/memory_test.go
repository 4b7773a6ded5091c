package memory

import (
	"context"
	"testing"

	"expensewise/internal/core"
	"expensewise/internal/sheets"
)

var _ sheets.ExpenseMirror = (*Mirror)(nil)

func TestMirrorAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := New()
	e := core.SampleExpenses()[0]
	if err := m.AppendExpense(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := m.AppendExpense(ctx, e); err != nil {
		t.Fatalf("append again: %v", err)
	}
	if rows := m.Rows(); len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	bad := e
	bad.ID, bad.Amount = "x", -1
	if err := m.AppendExpense(ctx, bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestMirrorDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	m := New()
	for _, e := range core.SampleExpenses()[:3] {
		_ = m.AppendExpense(ctx, e)
	}
	_ = m.DeleteExpense(ctx, "2")
	_ = m.DeleteExpense(ctx, "nope")
	rows := m.Rows()
	if len(rows) != 2 || rows[0].ID != "1" || rows[1].ID != "3" {
		t.Fatalf("unexpected rows %v", rows)
	}
	_ = m.ClearExpenses(ctx)
	if len(m.Rows()) != 0 {
		t.Fatalf("expected empty mirror")
	}
}

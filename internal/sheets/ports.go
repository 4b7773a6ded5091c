// Package sheets defines the spreadsheet mirror of the expense list.
package sheets

import (
	"context"

	"expensewise/internal/core"
)

// ExpenseMirror keeps a copy of the expense list outside the service.
// Implementations should tolerate replays of the same change.
type ExpenseMirror interface {
	AppendExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ClearExpenses(ctx context.Context) error
}

// Header is the first row of a mirror sheet.
var Header = []string{"ID", "Date", "Category", "Amount", "Description"}

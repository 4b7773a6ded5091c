// Package store defines the expense list port shared by every backend.
package store

import (
	"context"

	"expensewise/internal/core"
)

// Store holds the ordered expense list, newest first.
type Store interface {
	// Add prepends e. A fresh id is assigned when e.ID is empty.
	Add(ctx context.Context, e core.Expense) (core.Expense, error)
	// Remove drops the expense with id. An unknown id is not an error.
	Remove(ctx context.Context, id string) error
	// Clear empties the list.
	Clear(ctx context.Context) error
	// List returns a copy of the list in storage order.
	List(ctx context.Context) ([]core.Expense, error)
	// Version increases on every mutation.
	Version() uint64
}

// Seeder is implemented by backends that can be filled with demo data.
type Seeder interface {
	Seed(ctx context.Context, expenses []core.Expense) error
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"expensewise/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the expense list. Rows are returned newest
// first by insertion sequence.
type SQLiteRepository struct {
	db       *sql.DB
	revision atomic.Uint64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if _, err := repo.loadRevision(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Add inserts e as the newest row.
func (r *SQLiteRepository) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, date, category, amount, description) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Date.String(), string(e.Category), e.Amount, e.Description)
		return err
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"category", e.Category,
		"amount", e.Amount,
		"date", e.Date.String())
	return e, nil
}

// Remove deletes the row with id. A missing id is a no-op.
func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM expenses`)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, amount, description FROM expenses ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var (
			e        core.Expense
			date     string
			category string
		)
		if err := rows.Scan(&e.ID, &date, &category, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		e.Category = core.Category(category)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Seed replaces the table contents. Items are given newest first and are
// inserted oldest first so storage order matches.
func (r *SQLiteRepository) Seed(ctx context.Context, items []core.Expense) error {
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
			return err
		}
		for i := len(items) - 1; i >= 0; i-- {
			e := items[i]
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO expenses (id, date, category, amount, description) VALUES (?, ?, ?, ?, ?)`,
				e.ID, e.Date.String(), string(e.Category), e.Amount, e.Description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed expenses: %w", err)
	}
	slog.InfoContext(ctx, "Seeded SQLite store", "count", len(items))
	return nil
}

// Version returns the stored revision. Writes from other processes sharing
// the file are picked up; on read failure the last known value is returned.
func (r *SQLiteRepository) Version() uint64 {
	v, err := r.loadRevision(context.Background())
	if err != nil {
		slog.Warn("Failed to read store revision", "error", err)
		return r.revision.Load()
	}
	return v
}

func (r *SQLiteRepository) loadRevision(ctx context.Context) (uint64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, `SELECT revision FROM store_meta WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	r.revision.Store(uint64(v))
	return uint64(v), nil
}

// mutate runs fn and bumps the revision in the same transaction.
func (r *SQLiteRepository) mutate(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	var v int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE store_meta SET revision = revision + 1 WHERE id = 1 RETURNING revision`).Scan(&v); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.revision.Store(uint64(v))
	return nil
}

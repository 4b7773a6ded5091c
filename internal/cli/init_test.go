package cli

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"expensewise/internal/log"
)

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("debug", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger, err := NewLogger("loud", "text")
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
	if logger == nil {
		t.Fatal("logger should still be usable")
	}
}

func quietLogger() *log.Logger {
	logger, _ := NewLogger("error", "text")
	return logger
}

func TestRunTasksStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var stopped atomic.Int32

	task := Task{
		Name: "server",
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return http.ErrServerClosed
		},
		Stop: func(context.Context) error {
			stopped.Add(1)
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- RunTasks(ctx, quietLogger(), time.Second, task, task) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunTasks: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunTasks did not return")
	}
	if stopped.Load() != 2 {
		t.Fatalf("stopped %d tasks, want 2", stopped.Load())
	}
}

func TestRunTasksFailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	var otherStopped atomic.Bool

	err := RunTasks(context.Background(), quietLogger(), time.Second,
		Task{
			Name: "failing",
			Run:  func(context.Context) error { return boom },
		},
		Task{
			Name: "waiting",
			Run: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			Stop: func(context.Context) error {
				otherStopped.Store(true)
				return nil
			},
		},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !otherStopped.Load() {
		t.Fatal("remaining task was not stopped")
	}
}

// Package backend assembles the storage, messaging and advice adapters
// selected by configuration.
package backend

import (
	"context"
	"time"

	"expensewise/internal/advice"
	"expensewise/internal/services"
	"expensewise/internal/store"
)

// Backend is the set of adapters the services run on.
type Backend struct {
	Store store.Store
	// Publisher is nil when change events are disabled.
	Publisher services.EventPublisher
	Advisor   advice.Advisor
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]func(context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	SeedSample   bool

	// AMQP, disabled when empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Advice
	AdviceProvider string
	AdviceAPIKey   string
	AdviceBaseURL  string
	AdviceModel    string
	AdviceTimeout  time.Duration

	// Money formats amounts in rule-based advice. Nil uses plain decimals.
	Money func(float64) string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

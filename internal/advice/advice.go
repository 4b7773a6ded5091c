// Package advice defines the port to budgeting advice providers.
package advice

import (
	"context"
	"errors"

	"expensewise/internal/core"
)

// Advisor turns a spending snapshot into a summary and recommendations.
// Implementations return an error rather than a partial result.
type Advisor interface {
	Recommend(ctx context.Context, req core.AdviceRequest) (core.Advice, error)
}

// AdvisorFunc adapts a function to Advisor.
type AdvisorFunc func(ctx context.Context, req core.AdviceRequest) (core.Advice, error)

func (f AdvisorFunc) Recommend(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
	return f(ctx, req)
}

var (
	// ErrEmptyResponse is returned when the provider answers with no content.
	ErrEmptyResponse = errors.New("advice provider returned an empty response")
)

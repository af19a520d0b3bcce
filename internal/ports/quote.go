// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNetwork, ErrValidation, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/betterdays/inspiration-service/internal/domain"
)

// QuoteSource fetches a single quote from an external service.
//
// Key considerations:
//   - One call is one outbound attempt; retry belongs to the caller
//   - Returns *domain.NetworkError for transport failures and non-2xx statuses
//   - Returns *domain.ValidationError when the payload is not a valid quote
type QuoteSource interface {
	FetchQuote(ctx context.Context) (*domain.Quote, error)
}

// QuoteProvider exposes the quote lifecycle to renderers.
type QuoteProvider interface {
	// Snapshot returns the current state without blocking on in-flight work.
	Snapshot() domain.QuoteState

	// Retry restarts the fetch cycle from attempt 1, superseding any cycle in flight.
	Retry()

	// Refresh starts a new cycle from any state when refresh is enabled.
	// Returns domain.ErrConflict when refresh is disabled and the provider
	// is not in the error state.
	Refresh(ctx context.Context) error

	// Subscribe delivers every subsequent state change. Slow subscribers only
	// see the latest state. The returned func unsubscribes.
	Subscribe() (<-chan domain.QuoteState, func())
}

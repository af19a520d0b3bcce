// Package clients provides the instrumented HTTP client used to reach the
// quote upstream.
package clients

import (
	"errors"
	"fmt"
)

// Client errors are infrastructure failures. Callers in the acl package
// translate them into domain errors.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last error once every attempt failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// ServerError marks a 5xx answer that was discarded so the request could be retried.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

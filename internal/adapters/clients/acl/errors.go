package acl

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/betterdays/inspiration-service/internal/adapters/clients"
	"github.com/betterdays/inspiration-service/internal/domain"
)

// MapHTTPError translates a failed exchange into a domain error.
//
// clientErr takes precedence: it means no usable response was received.
// Otherwise a response outside the 2xx range becomes a status error.
// Returns nil for a 2xx response.
func MapHTTPError(resp *http.Response, clientErr error) error {
	if clientErr != nil {
		return mapClientError(clientErr)
	}

	if resp == nil {
		return domain.NewTransportError(errors.New("no response received"))
	}

	if IsSuccess(resp.StatusCode) {
		return nil
	}

	return domain.NewStatusError(resp.StatusCode, http.StatusText(resp.StatusCode))
}

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// mapClientError wraps client-level failures. The cause stays reachable
// through errors.Is so callers can still tell an open circuit apart.
func mapClientError(err error) error {
	if errors.Is(err, clients.ErrCircuitOpen) {
		return domain.NewTransportError(fmt.Errorf("upstream paused: %w", err))
	}

	return domain.NewTransportError(err)
}

// invalidResponse is the single failure for any malformed payload.
func invalidResponse(field string) error {
	return domain.NewValidationError(field, domain.MessageInvalidResponse)
}

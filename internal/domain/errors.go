// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// MessageInvalidResponse is the message carried by every ValidationError
// raised for a malformed quote payload.
const MessageInvalidResponse = "Invalid API response"

// Sentinel errors for use with errors.Is().
var (
	// ErrNetwork indicates a transport failure or a non-success HTTP status.
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates a payload or business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the operation is not allowed in the current state.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// NetworkError describes a failed outbound request.
// Either StatusCode/StatusText are set (the server answered outside the
// 2xx range) or Cause is set (no response was received).
type NetworkError struct {
	StatusCode int
	StatusText string
	Cause      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.StatusText != "":
		return fmt.Sprintf("network error: %d %s", e.StatusCode, e.StatusText)
	case e.StatusCode != 0:
		return fmt.Sprintf("network error: HTTP %d", e.StatusCode)
	case e.Cause != nil:
		return "network error: " + e.Cause.Error()
	default:
		return "network error"
	}
}

// Unwrap returns the sentinel and the cause for errors.Is()/errors.As() support.
func (e *NetworkError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrNetwork, e.Cause}
	}

	return []error{ErrNetwork}
}

// NewStatusError creates a network error for a non-success HTTP status.
func NewStatusError(statusCode int, statusText string) error {
	return &NetworkError{StatusCode: statusCode, StatusText: statusText}
}

// NewTransportError creates a network error for a request that got no response.
func NewTransportError(cause error) error {
	return &NetworkError{Cause: cause}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsFetchFailure reports whether err is one of the failures a quote fetch
// can produce. Both kinds are surfaced identically to consumers.
func IsFetchFailure(err error) bool {
	return IsNetwork(err) || IsValidation(err)
}

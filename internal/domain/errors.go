package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout signals that the backend did not answer within the request deadline.
	ErrTimeout = errors.New("search request timed out")
	// ErrBackend signals a non-2xx backend reply or a failed round trip.
	ErrBackend = errors.New("backend request failed")
	// ErrMalformedResponse signals a 2xx reply that violates the {ok, data} envelope.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrNoFilters signals a search without a single filter set.
	ErrNoFilters = errors.New("at least one search filter is required")
	// ErrInvalidFilters signals inconsistent filter bounds.
	ErrInvalidFilters = errors.New("invalid search filters")
)

// BackendError wraps ErrBackend with the HTTP status and the raw response body.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrBackend.Error(), e.StatusCode, e.Body)
}

func (e *BackendError) Unwrap() error { return ErrBackend }

// NewBackendError creates a backend error for a non-2xx reply.
func NewBackendError(statusCode int, body string) error {
	return &BackendError{StatusCode: statusCode, Body: body}
}

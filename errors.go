package autoadvisor

import "github.com/kailas-cloud/autoadvisor/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTimeout           = domain.ErrTimeout
	ErrBackend           = domain.ErrBackend
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrNoFilters         = domain.ErrNoFilters
	ErrInvalidFilters    = domain.ErrInvalidFilters
)

// BackendError carries the status and body of a non-2xx backend reply.
// Use errors.As() to extract it.
type BackendError = domain.BackendError

package health

import "context"

// BackendChecker checks recommendation backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}

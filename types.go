package autoadvisor

import (
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
)

// Fuel types understood by the backend.
const (
	FuelDiesel   = filter.FuelDiesel
	FuelPetrol   = filter.FuelPetrol
	FuelHybrid   = filter.FuelHybrid
	FuelElectric = filter.FuelElectric
)

// Criteria are the search filters. Nil bounds and empty strings mean "any".
type Criteria struct {
	PriceMin   *int
	PriceMax   *int
	FuelType   string
	MileageMin *int
	MileageMax *int
	Color      string
}

// Int returns a pointer to v, for Criteria bounds.
func Int(v int) *int { return &v }

func (c Criteria) toFilters() (filter.Filters, error) {
	f, err := filter.Build(c.PriceMin, c.PriceMax, c.FuelType, c.MileageMin, c.MileageMax, c.Color)
	if err != nil {
		return filter.Filters{}, err //nolint:wrapcheck // already wraps ErrInvalidFilters
	}
	return f, nil
}

// Normalized backend records. All fields are always populated.
type (
	Recommendation = rec.Recommendation
	Listing        = rec.Listing
	Analysis       = rec.Analysis
)

// HealthStatus represents the backend reachability.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
)

// Range is an inclusive integer range. A nil bound leaves that side unbounded.
type Range struct {
	min *int
	max *int
}

// NewRange validates and creates a Range.
// Bounds must be non-negative and min must not exceed max.
func NewRange(minVal, maxVal *int) (Range, error) {
	if minVal != nil && *minVal < 0 {
		return Range{}, fmt.Errorf("min must be non-negative, got %d", *minVal)
	}
	if maxVal != nil && *maxVal < 0 {
		return Range{}, fmt.Errorf("max must be non-negative, got %d", *maxVal)
	}
	if minVal != nil && maxVal != nil && *minVal > *maxVal {
		return Range{}, fmt.Errorf("min %d exceeds max %d", *minVal, *maxVal)
	}
	return Range{min: copyInt(minVal), max: copyInt(maxVal)}, nil
}

// Min returns the lower inclusive bound.
func (r Range) Min() *int { return copyInt(r.min) }

// Max returns the upper inclusive bound.
func (r Range) Max() *int { return copyInt(r.max) }

// IsEmpty reports whether neither bound is set.
func (r Range) IsEmpty() bool { return r.min == nil && r.max == nil }

// Filters is the set of vehicle search criteria sent to the recommendation backend.
type Filters struct {
	price    Range
	fuelType string
	mileage  Range
	color    string
}

// New creates Filters. Empty fuelType and color are treated as absent.
// Filters without any criteria are valid here; callers decide whether to search.
func New(price Range, fuelType string, mileage Range, color string) Filters {
	return Filters{
		price:    price,
		fuelType: strings.TrimSpace(fuelType),
		mileage:  mileage,
		color:    strings.TrimSpace(color),
	}
}

// Build validates raw bounds and creates Filters in one step.
// Validation errors wrap domain.ErrInvalidFilters.
func Build(priceMin, priceMax *int, fuelType string, mileageMin, mileageMax *int, color string) (Filters, error) {
	price, err := NewRange(priceMin, priceMax)
	if err != nil {
		return Filters{}, fmt.Errorf("%w: price: %w", domain.ErrInvalidFilters, err)
	}
	mileage, err := NewRange(mileageMin, mileageMax)
	if err != nil {
		return Filters{}, fmt.Errorf("%w: mileage: %w", domain.ErrInvalidFilters, err)
	}
	return New(price, fuelType, mileage, color), nil
}

// Price returns the price range in euros.
func (f Filters) Price() Range { return f.price }

// FuelType returns the fuel type, empty if unset.
func (f Filters) FuelType() string { return f.fuelType }

// Mileage returns the mileage range in kilometres.
func (f Filters) Mileage() Range { return f.mileage }

// Color returns the color, empty if unset.
func (f Filters) Color() string { return f.color }

// IsEmpty reports whether no criterion is set.
func (f Filters) IsEmpty() bool {
	return f.price.IsEmpty() && f.mileage.IsEmpty() && f.fuelType == "" && f.color == ""
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

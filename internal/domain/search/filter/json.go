package filter

import (
	"encoding/json"
	"fmt"
)

// wireFilters is the JSON shape expected by the recommendation backend:
// {"price":{"min":int|null,"max":int|null},"fuelType":string|null,"mileage":{...},"color":string|null}
type wireFilters struct {
	Price    wireRange `json:"price"`
	FuelType *string   `json:"fuelType"`
	Mileage  wireRange `json:"mileage"`
	Color    *string   `json:"color"`
}

type wireRange struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// MarshalJSON encodes Filters in the backend wire shape. Absent values become null.
func (f Filters) MarshalJSON() ([]byte, error) {
	w := wireFilters{
		Price:    wireRange{Min: f.price.min, Max: f.price.max},
		FuelType: nullable(f.fuelType),
		Mileage:  wireRange{Min: f.mileage.min, Max: f.mileage.max},
		Color:    nullable(f.color),
	}
	return json.Marshal(w) //nolint:wrapcheck // plain struct, cannot fail
}

// UnmarshalJSON decodes the backend wire shape and validates the bounds.
func (f *Filters) UnmarshalJSON(data []byte) error {
	var w wireFilters
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode filters: %w", err)
	}
	built, err := Build(w.Price.Min, w.Price.Max, deref(w.FuelType), w.Mileage.Min, w.Mileage.Max, deref(w.Color))
	if err != nil {
		return err
	}
	*f = built
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package filter

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNewRange(t *testing.T) {
	tests := []struct {
		name    string
		min     *int
		max     *int
		wantErr bool
	}{
		{"unbounded", nil, nil, false},
		{"min only", intPtr(1000), nil, false},
		{"max only", nil, intPtr(20000), false},
		{"both", intPtr(1000), intPtr(20000), false},
		{"equal bounds", intPtr(5000), intPtr(5000), false},
		{"min above max", intPtr(20000), intPtr(1000), true},
		{"negative min", intPtr(-1), nil, true},
		{"negative max", nil, intPtr(-5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRange(tc.min, tc.max)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewRange() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRange_CopiesBounds(t *testing.T) {
	minVal := 1000
	r, err := NewRange(&minVal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	minVal = 9999
	if got := *r.Min(); got != 1000 {
		t.Errorf("Min() = %d, want 1000 (range must not alias caller memory)", got)
	}

	m := r.Min()
	*m = 1
	if got := *r.Min(); got != 1000 {
		t.Errorf("Min() = %d after mutating returned pointer, want 1000", got)
	}
}

func TestFilters_IsEmpty(t *testing.T) {
	empty := New(Range{}, "", Range{}, "  ")
	if !empty.IsEmpty() {
		t.Error("expected empty filters")
	}

	tests := []struct {
		name string
		f    Filters
	}{
		{"fuel", New(Range{}, FuelDiesel, Range{}, "")},
		{"color", New(Range{}, "", Range{}, "Melna")},
		{"price", mustBuild(t, intPtr(1), nil, "", nil, nil, "")},
		{"mileage", mustBuild(t, nil, nil, "", nil, intPtr(200000), "")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.f.IsEmpty() {
				t.Error("expected non-empty filters")
			}
		})
	}
}

func TestBuild_InvalidBounds(t *testing.T) {
	_, err := Build(intPtr(10), intPtr(5), "", nil, nil, "")
	if !errors.Is(err, domain.ErrInvalidFilters) {
		t.Fatalf("price: err = %v, want ErrInvalidFilters", err)
	}
	_, err = Build(nil, nil, "", intPtr(300000), intPtr(100), "")
	if !errors.Is(err, domain.ErrInvalidFilters) {
		t.Fatalf("mileage: err = %v, want ErrInvalidFilters", err)
	}
}

func TestCatalog(t *testing.T) {
	if !IsKnownFuelType(FuelHybrid) {
		t.Error("hybrid should be known")
	}
	if IsKnownFuelType("Gāze") {
		t.Error("unexpected known fuel type")
	}
	if len(Colors) != 20 {
		t.Errorf("len(Colors) = %d, want 20", len(Colors))
	}
	if !IsKnownColor("Tumši sarkanametālika") {
		t.Error("expected known color")
	}
}

func mustBuild(t *testing.T, pMin, pMax *int, fuel string, mMin, mMax *int, color string) Filters {
	t.Helper()
	f, err := Build(pMin, pMax, fuel, mMin, mMax, color)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return f
}

package backend

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"json number", json.Number("12500"), 12500},
		{"json fraction", json.Number("99.5"), 99.5},
		{"float", 3.25, 3.25},
		{"numeric string", "12500", 12500},
		{"padded string", "  8000 ", 8000},
		{"non-numeric string", "12 500 €", 0},
		{"empty string", "", 0},
		{"true", true, 1},
		{"false", false, 0},
		{"nil", nil, 0},
		{"array", []any{json.Number("1")}, 0},
		{"object", map[string]any{}, 0},
		{"hex string", "0x1A", 26},
		{"octal string", "0o17", 15},
		{"binary string", "0b101", 5},
		{"signed hex string", "-0x1A", 0},
		{"bad hex string", "0xZZ", 0},
		{"nan string", "NaN", 0},
		{"inf string", "Infinity", 0},
		{"nonfinite float", math.Inf(1), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := asNumber(tc.in); got != tc.want {
				t.Errorf("asNumber(%#v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAsInt(t *testing.T) {
	if got := asInt(json.Number("2015.9")); got != 2015 {
		t.Errorf("asInt(2015.9) = %d, want 2015", got)
	}
	if got := asInt("1e300"); got != 0 {
		t.Errorf("asInt(1e300) = %d, want 0", got)
	}
}

func TestAsText(t *testing.T) {
	if v, ok := asText("BMW"); !ok || v != "BMW" {
		t.Errorf("asText(BMW) = %q, %v", v, ok)
	}
	for _, in := range []any{"", nil, json.Number("5"), true, []any{"a"}} {
		if _, ok := asText(in); ok {
			t.Errorf("asText(%#v) should be missing", in)
		}
	}
}

func TestAsStringList(t *testing.T) {
	got := asStringList([]any{"a", json.Number("1"), "b", nil, map[string]any{}})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("asStringList = %v", got)
	}
	for _, in := range []any{nil, "a,b", json.Number("3"), map[string]any{"0": "a"}} {
		got := asStringList(in)
		if got == nil || len(got) != 0 {
			t.Errorf("asStringList(%#v) = %#v, want empty non-nil", in, got)
		}
	}
}

func TestClampScore(t *testing.T) {
	for in, want := range map[float64]float64{-5: 0, 0: 0, 73: 73, 87.6: 87.6, 100: 100, 140: 100} {
		if got := clampScore(in); got != want {
			t.Errorf("clampScore(%v) = %v, want %v", in, got, want)
		}
	}
}

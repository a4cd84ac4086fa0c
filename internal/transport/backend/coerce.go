package backend

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxSafeInteger bounds integer conversion to values a JSON number carries exactly.
const maxSafeInteger = 1<<53 - 1

// asText returns v when it is a non-empty JSON string.
// Numbers, booleans, objects and arrays are treated as missing.
func asText(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// asNumber coerces v to a finite number, or 0 when that is not possible.
// Numeric strings (surrounding whitespace allowed) are parsed; booleans map to 1/0.
func asNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		parsed, ok := parseNumeric(s)
		if !ok {
			return 0
		}
		f = parsed
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseNumeric parses a decimal or exponent literal, or an unsigned 0x/0o/0b integer.
// Infinity and NaN spellings are accepted here and rejected by the caller.
func parseNumeric(s string) (float64, bool) {
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// asInt truncates asNumber toward zero. Values beyond the exact integer range become 0.
func asInt(v any) int {
	f := math.Trunc(asNumber(v))
	if math.Abs(f) > maxSafeInteger {
		return 0
	}
	return int(f)
}

// asStringList returns the string elements of a JSON array.
// Non-array values yield an empty, non-nil slice; non-string elements are dropped.
func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// asObject returns v as a JSON object, or nil when it is anything else.
func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

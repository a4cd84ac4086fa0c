package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CollapsedFeatureCount is how many features a collapsed card shows.
const CollapsedFeatureCount = 6

// Cards format numbers the way the en-US locale does: 12,500.
var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a euro amount without decimals, e.g. €12,500.
func FormatPrice(price float64) string {
	n := int64(math.Round(price))
	if n < 0 {
		return "-€" + printer.Sprintf("%d", -n)
	}
	return "€" + printer.Sprintf("%d", n)
}

// FormatMileage renders kilometres with thousands separators, e.g. 187,000 km.
func FormatMileage(km int) string {
	return printer.Sprintf("%d km", km)
}

// MatchLabel renders the match score badge; empty when there is no score.
func MatchLabel(score float64) string {
	if score <= 0 {
		return ""
	}
	return strconv.FormatFloat(score, 'f', -1, 64) + "% sakritība"
}

// InspectionLabel renders the technical inspection badge; empty when unknown.
func InspectionLabel(date string) string {
	if date == "" {
		return ""
	}
	return "TA līdz " + date
}

// EngineLine joins fuel type and transmission, skipping whichever is missing.
func EngineLine(fuelType, transmission string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{fuelType, transmission} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// VisibleFeatures returns the features to render and the overflow badge text.
// Collapsed cards show the first CollapsedFeatureCount features plus "+N vairāk".
func VisibleFeatures(features []string, expanded bool) ([]string, string) {
	if expanded || len(features) <= CollapsedFeatureCount {
		return features, ""
	}
	hidden := len(features) - CollapsedFeatureCount
	return features[:CollapsedFeatureCount], fmt.Sprintf("+%d vairāk", hidden)
}

// Paragraphs splits free text into non-empty trimmed lines for rendering.
func Paragraphs(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

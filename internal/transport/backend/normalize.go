package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
)

// Декларативные правила нормализации: ключ JSON -> поле записи + значение по умолчанию.

type textRule[T any] struct {
	key      string
	fallback string
	set      func(*T, string)
}

type numberRule[T any] struct {
	key string
	set func(*T, any)
}

type listRule[T any] struct {
	key string
	set func(*T, []string)
}

// schema is the complete defaulting policy for one record type.
type schema[T any] struct {
	texts   []textRule[T]
	numbers []numberRule[T]
	lists   []listRule[T]
}

// apply builds a fresh T from raw. A nil raw object yields a fully defaulted record.
func (s *schema[T]) apply(raw map[string]any) T {
	var out T
	for _, r := range s.texts {
		v, ok := asText(raw[r.key])
		if !ok {
			v = r.fallback
		}
		r.set(&out, v)
	}
	for _, r := range s.numbers {
		r.set(&out, raw[r.key])
	}
	for _, r := range s.lists {
		r.set(&out, asStringList(raw[r.key]))
	}
	return out
}

var listingSchema = schema[rec.Listing]{
	texts: []textRule[rec.Listing]{
		{"id", "", func(l *rec.Listing, v string) { l.ID = v }},
		{"make", "", func(l *rec.Listing, v string) { l.Make = v }},
		{"model", "", func(l *rec.Listing, v string) { l.Model = v }},
		{"title", "", func(l *rec.Listing, v string) { l.Title = v }},
		{"fuelType", "", func(l *rec.Listing, v string) { l.FuelType = v }},
		{"transmission", "", func(l *rec.Listing, v string) { l.Transmission = v }},
		{"color", "", func(l *rec.Listing, v string) { l.Color = v }},
		{"condition", rec.DefaultCondition, func(l *rec.Listing, v string) { l.Condition = v }},
		{"location", rec.DefaultLocation, func(l *rec.Listing, v string) { l.Location = v }},
		{"sellerType", rec.DefaultSellerType, func(l *rec.Listing, v string) { l.SellerType = v }},
		{"imageUrl", "", func(l *rec.Listing, v string) { l.ImageURL = v }},
		{"url", "", func(l *rec.Listing, v string) { l.URL = v }},
		{"engineDetails", "", func(l *rec.Listing, v string) { l.EngineDetails = v }},
		{"bodyType", "", func(l *rec.Listing, v string) { l.BodyType = v }},
		{"technicalInspection", "", func(l *rec.Listing, v string) { l.TechnicalInspection = v }},
		{"description", "", func(l *rec.Listing, v string) { l.Description = v }},
	},
	numbers: []numberRule[rec.Listing]{
		{"price", func(l *rec.Listing, v any) { l.Price = asNumber(v) }},
		{"year", func(l *rec.Listing, v any) { l.Year = asInt(v) }},
		{"mileage", func(l *rec.Listing, v any) { l.Mileage = asInt(v) }},
	},
	lists: []listRule[rec.Listing]{
		{"features", func(l *rec.Listing, v []string) { l.Features = v }},
	},
}

var analysisSchema = schema[rec.Analysis]{
	texts: []textRule[rec.Analysis]{
		{"valueAssessment", "", func(a *rec.Analysis, v string) { a.ValueAssessment = v }},
		{"recommendation", rec.DefaultRecommendation, func(a *rec.Analysis, v string) { a.Recommendation = v }},
		{"commonProblems", "", func(a *rec.Analysis, v string) { a.CommonProblems = v }},
		{"highMileageConcerns", "", func(a *rec.Analysis, v string) { a.HighMileageConcerns = v }},
	},
	numbers: []numberRule[rec.Analysis]{
		{"matchScore", func(a *rec.Analysis, v any) { a.MatchScore = clampScore(asNumber(v)) }},
	},
	lists: []listRule[rec.Analysis]{
		{"strengths", func(a *rec.Analysis, v []string) { a.Strengths = v }},
		{"considerations", func(a *rec.Analysis, v []string) { a.Considerations = v }},
	},
}

var sectionSchema = schema[rec.Recommendation]{
	texts: []textRule[rec.Recommendation]{
		{"checklistItems", "", func(r *rec.Recommendation, v string) { r.ChecklistItems = v }},
		{"comparison", "", func(r *rec.Recommendation, v string) { r.Comparison = v }},
		{"summary", "", func(r *rec.Recommendation, v string) { r.Summary = v }},
	},
}

// normalizeItem maps one raw data element into a Recommendation.
// The element must be an object with a carDetails object; aiAnalysis is optional.
func normalizeItem(raw json.RawMessage, index int) (rec.Recommendation, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var item map[string]any
	if err := dec.Decode(&item); err != nil || item == nil {
		return rec.Recommendation{}, fmt.Errorf("%w: item %d is not an object", domain.ErrMalformedResponse, index)
	}

	details := asObject(item["carDetails"])
	if details == nil {
		return rec.Recommendation{}, fmt.Errorf("%w: item %d: missing carDetails", domain.ErrMalformedResponse, index)
	}

	out := sectionSchema.apply(item)
	out.Listing = listingSchema.apply(details)
	out.Analysis = analysisSchema.apply(asObject(item["aiAnalysis"]))
	return out, nil
}

// clampScore bounds a score to 0..100. Fractions are kept.
func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

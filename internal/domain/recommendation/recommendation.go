// Package recommendation holds the normalized vehicle recommendation records
// produced from a single backend search response.
package recommendation

import "strings"

// Fallbacks applied when the backend omits a field.
const (
	DefaultCondition      = "Used"
	DefaultLocation       = "Latvia"
	DefaultSellerType     = "Private"
	DefaultRecommendation = "Consider this vehicle based on your criteria"
)

// Listing is a flat record of vehicle attributes.
type Listing struct {
	ID                  string   `json:"id"`
	Make                string   `json:"make"`
	Model               string   `json:"model"`
	Title               string   `json:"title"`
	Price               float64  `json:"price"`
	Year                int      `json:"year"`
	Mileage             int      `json:"mileage"`
	FuelType            string   `json:"fuelType"`
	Transmission        string   `json:"transmission"`
	Color               string   `json:"color"`
	Condition           string   `json:"condition"`
	Location            string   `json:"location"`
	SellerType          string   `json:"sellerType"`
	ImageURL            string   `json:"imageUrl"`
	URL                 string   `json:"url"`
	Features            []string `json:"features"`
	EngineDetails       string   `json:"engineDetails"`
	BodyType            string   `json:"bodyType"`
	TechnicalInspection string   `json:"technicalInspection"`
	Description         string   `json:"description"`
}

// DisplayTitle returns Title, or "Make Model" when the backend sent no title.
func (l Listing) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	return strings.TrimSpace(l.Make + " " + l.Model)
}

// HasInspection reports whether a technical inspection date is known.
func (l Listing) HasInspection() bool { return l.TechnicalInspection != "" }

// Analysis is the backend's assessment of a single listing.
type Analysis struct {
	MatchScore          float64  `json:"matchScore"`
	Strengths           []string `json:"strengths"`
	Considerations      []string `json:"considerations"`
	ValueAssessment     string   `json:"valueAssessment"`
	Recommendation      string   `json:"recommendation"`
	CommonProblems      string   `json:"commonProblems"`
	HighMileageConcerns string   `json:"highMileageConcerns"`
}

// Recommendation pairs a listing with its analysis and the expanded-view sections.
type Recommendation struct {
	Listing        Listing  `json:"carDetails"`
	Analysis       Analysis `json:"aiAnalysis"`
	ChecklistItems string   `json:"checklistItems"`
	Comparison     string   `json:"comparison"`
	Summary        string   `json:"summary"`
}

// HasDetails reports whether any expanded-view section carries text.
func (r Recommendation) HasDetails() bool {
	a := r.Analysis
	return r.ChecklistItems != "" || r.Comparison != "" || r.Summary != "" ||
		a.CommonProblems != "" || a.HighMileageConcerns != "" || a.ValueAssessment != ""
}

package chi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	"github.com/kailas-cloud/autoadvisor/internal/view"
)

// Query parameter names of the search form.
const (
	paramPriceMin   = "priceMin"
	paramPriceMax   = "priceMax"
	paramFuelType   = "fuelType"
	paramMileageMin = "mileageMin"
	paramMileageMax = "mileageMax"
	paramColor      = "color"
	paramExpand     = "expand"
)

// Inline validation messages.
const (
	msgNotInteger   = "Ievadiet veselu skaitli"
	msgRangeInvalid = "Minimālā vērtība nedrīkst pārsniegt maksimālo"
	msgUnknownValue = "Izvēlieties vērtību no saraksta"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() *template.Template {
	return template.Must(template.New("pages").Funcs(template.FuncMap{
		"paragraphs": view.Paragraphs,
	}).ParseFS(templateFS, "templates/*.html"))
}

// searchParams are the raw form values; nil bounds mean "not entered".
type searchParams struct {
	PriceMin   *int
	PriceMax   *int
	FuelType   *string
	MileageMin *int
	MileageMax *int
	Color      *string
	Expand     *[]string
}

// formValues echoes the submitted form back into the inputs.
type formValues struct {
	PriceMin   string
	PriceMax   string
	FuelType   string
	MileageMin string
	MileageMax string
	Color      string
}

type pageData struct {
	State       view.State
	Phase       view.Phase
	Form        formValues
	FieldErrors map[string]string
	FuelTypes   []string
	Colors      []string
	Cards       []cardView
}

type cardView struct {
	Key             string
	Title           string
	Price           string
	Year            int
	Mileage         string
	Engine          string
	Location        string
	SellerType      string
	BodyType        string
	ImageURL        string
	URL             string
	MatchLabel      string
	MatchScore      float64
	InspectionLabel string
	HasDetails      bool
	Features        []string
	MoreFeatures    string
	Expanded        bool
	ToggleURL       string
	Rec             rec.Recommendation
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.newPage(view.Initial(), formValues{}, nil, nil))
}

// SearchPage handles GET /search.
func (s *Server) SearchPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	form := formFromQuery(query)

	params, fieldErrors := bindSearchParams(query)
	f, rangeErrors := buildFilters(params)
	for k, v := range rangeErrors {
		fieldErrors[k] = v
	}

	state := view.Initial()
	if len(fieldErrors) > 0 {
		state = view.Fail(state, domain.ErrInvalidFilters)
		s.render(w, r, http.StatusBadRequest, s.newPage(state, form, fieldErrors, query))
		return
	}

	state = view.Submit(state, f)
	results, err := s.search.Search(r.Context(), f)
	if err != nil {
		state = view.Fail(state, err)
		s.render(w, r, statusForPage(err), s.newPage(state, form, nil, query))
		return
	}
	state = view.Succeed(state, results)

	for _, key := range derefSlice(params.Expand) {
		state = view.Toggle(state, key)
	}

	s.render(w, r, http.StatusOK, s.newPage(state, form, nil, query))
}

// bindSearchParams binds typed query parameters. Empty values count as absent.
func bindSearchParams(query url.Values) (searchParams, map[string]string) {
	present := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				present.Add(k, v)
			}
		}
	}

	var p searchParams
	fieldErrors := map[string]string{}
	for name, dest := range map[string]**int{
		paramPriceMin:   &p.PriceMin,
		paramPriceMax:   &p.PriceMax,
		paramMileageMin: &p.MileageMin,
		paramMileageMax: &p.MileageMax,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, present, dest); err != nil {
			fieldErrors[name] = msgNotInteger
		}
	}
	_ = runtime.BindQueryParameter("form", true, false, paramFuelType, present, &p.FuelType)
	_ = runtime.BindQueryParameter("form", true, false, paramColor, present, &p.Color)
	_ = runtime.BindQueryParameter("form", true, false, paramExpand, present, &p.Expand)

	// The form only offers catalog values; anything else is a hand-edited URL.
	if p.FuelType != nil && !filter.IsKnownFuelType(*p.FuelType) {
		fieldErrors[paramFuelType] = msgUnknownValue
	}
	if p.Color != nil && !filter.IsKnownColor(*p.Color) {
		fieldErrors[paramColor] = msgUnknownValue
	}

	return p, fieldErrors
}

// buildFilters validates each range separately so the error lands on the right field.
func buildFilters(p searchParams) (filter.Filters, map[string]string) {
	fieldErrors := map[string]string{}
	price, err := filter.NewRange(p.PriceMin, p.PriceMax)
	if err != nil {
		fieldErrors[paramPriceMin] = msgRangeInvalid
	}
	mileage, err := filter.NewRange(p.MileageMin, p.MileageMax)
	if err != nil {
		fieldErrors[paramMileageMin] = msgRangeInvalid
	}
	return filter.New(price, deref(p.FuelType), mileage, deref(p.Color)), fieldErrors
}

func formFromQuery(q url.Values) formValues {
	return formValues{
		PriceMin:   q.Get(paramPriceMin),
		PriceMax:   q.Get(paramPriceMax),
		FuelType:   q.Get(paramFuelType),
		MileageMin: q.Get(paramMileageMin),
		MileageMax: q.Get(paramMileageMax),
		Color:      q.Get(paramColor),
	}
}

func (s *Server) newPage(state view.State, form formValues, fieldErrors map[string]string, query url.Values) pageData {
	cards := make([]cardView, len(state.Results))
	for i, r := range state.Results {
		cards[i] = newCard(state, i, r, query)
	}
	return pageData{
		State:       state,
		Phase:       state.Phase(),
		Form:        form,
		FieldErrors: fieldErrors,
		FuelTypes:   filter.FuelTypes,
		Colors:      filter.Colors,
		Cards:       cards,
	}
}

func newCard(state view.State, index int, r rec.Recommendation, query url.Values) cardView {
	key := view.CardKey(index, r)
	expanded := state.IsExpanded(key)
	features, more := view.VisibleFeatures(r.Listing.Features, expanded)
	l := r.Listing
	inspection := ""
	if l.HasInspection() {
		inspection = view.InspectionLabel(l.TechnicalInspection)
	}
	return cardView{
		Key:             key,
		Title:           l.DisplayTitle(),
		Price:           view.FormatPrice(l.Price),
		Year:            l.Year,
		Mileage:         view.FormatMileage(l.Mileage),
		Engine:          view.EngineLine(l.FuelType, l.Transmission),
		Location:        l.Location,
		SellerType:      l.SellerType,
		BodyType:        l.BodyType,
		ImageURL:        l.ImageURL,
		URL:             l.URL,
		MatchLabel:      view.MatchLabel(r.Analysis.MatchScore),
		MatchScore:      r.Analysis.MatchScore,
		InspectionLabel: inspection,
		HasDetails:      r.HasDetails(),
		Features:        features,
		MoreFeatures:    more,
		Expanded:        expanded,
		ToggleURL:       toggleURL(view.Toggle(state, key), query),
		Rec:             r,
	}
}

// toggleURL rebuilds the current search link with the expanded set of next.
func toggleURL(next view.State, query url.Values) string {
	q := url.Values{}
	for k, vs := range query {
		if k != paramExpand {
			q[k] = vs
		}
	}
	for key, on := range next.Expanded {
		if on {
			q.Add(paramExpand, key)
		}
	}
	return "/search?" + q.Encode()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "page.html", data); err != nil {
		s.logger.Error("render page", zap.Error(err), zap.String("path", r.URL.Path))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusForPage maps a failed search to the HTTP status of the rendered page.
func statusForPage(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoFilters), errors.Is(err, domain.ErrInvalidFilters):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func derefSlice(s *[]string) []string {
	if s == nil {
		return nil
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

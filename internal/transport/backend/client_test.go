package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	"github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/autoadvisor/internal/logger"
	"github.com/kailas-cloud/autoadvisor/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterBackendMetrics()
	os.Exit(m.Run())
}

func intPtr(v int) *int { return &v }

func testFilters(t *testing.T) filter.Filters {
	t.Helper()
	f, err := filter.Build(intPtr(2000), intPtr(12000), filter.FuelDiesel, nil, intPtr(250000), "Melna")
	if err != nil {
		t.Fatalf("build filters: %v", err)
	}
	return f
}

// jsonServer answers every request with the given status and body.
func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{BaseURL: baseURL, Logger: zap.NewNop()})
}

func TestSearch_SendsSingleRequestWithFilters(t *testing.T) {
	f := testFilters(t)
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/search" {
			t.Errorf("path = %s, want /api/search", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}

		var got filter.Filters
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if !reflect.DeepEqual(got, f) {
			t.Errorf("body filters = %+v, want %+v", got, f)
		}

		_, _ = io.WriteString(w, `{"ok": true, "data": []}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Search(context.Background(), f); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("backend called %d times, want exactly 1", n)
	}
}

func TestSearch_EmptyData(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"ok": true, "data": []}`)

	got, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSearch_MalformedEnvelope(t *testing.T) {
	tests := map[string]string{
		"ok false":          `{"ok": false, "data": []}`,
		"ok missing":        `{"data": []}`,
		"ok string":         `{"ok": "true", "data": []}`,
		"ok number":         `{"ok": 1, "data": []}`,
		"data missing":      `{"ok": true}`,
		"data null":         `{"ok": true, "data": null}`,
		"data object":       `{"ok": true, "data": {"carDetails": {}}}`,
		"data string":       `{"ok": true, "data": "[]"}`,
		"not json":          `<html>Bad Gateway</html>`,
		"top-level array":   `[{"carDetails": {}}]`,
		"error shaped 200":  `{"detail": "Error analyzing car listings. Please try again."}`,
		"element null":      `{"ok": true, "data": [null]}`,
		"element primitive": `{"ok": true, "data": [42]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, body)
			got, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("err = %v, want ErrMalformedResponse", err)
			}
			if got != nil {
				t.Errorf("expected no results, got %d", len(got))
			}
		})
	}
}

func TestSearch_MissingCarDetailsFailsWholeBatch(t *testing.T) {
	body := `{"ok": true, "data": [
		{"carDetails": {"id": "1", "make": "BMW"}, "aiAnalysis": {"matchScore": 90}},
		{"aiAnalysis": {"matchScore": 80}}
	]}`
	srv := jsonServer(t, http.StatusOK, body)

	got, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if got != nil {
		t.Errorf("partial results returned: %d", len(got))
	}
}

func TestSearch_CarDetailsMustBeObject(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"ok": true, "data": [{"carDetails": "BMW 320d"}]}`)

	_, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestSearch_Normalization(t *testing.T) {
	body := `{"ok": true, "data": [{
		"carDetails": {
			"id": "48213",
			"make": "BMW",
			"model": "520d Touring",
			"title": "BMW 520d Touring (2016)",
			"price": "12500",
			"year": 2016,
			"mileage": " 187000 ",
			"fuelType": "Dīzelis",
			"transmission": "Automāts",
			"color": "Melnametālika",
			"imageUrl": "https://img.example/1.jpg",
			"url": "https://www.ss.lv/msg/48213.html",
			"features": ["Navigācija", "Ādas salons", 7, null, "Xenon"],
			"bodyType": "Universālis",
			"technicalInspection": "2025-04",
			"description": "Rūpīgi kopts"
		},
		"aiAnalysis": {
			"matchScore": 87,
			"considerations": ["Ķēdes piedziņa"],
			"valueAssessment": "Cena atbilst tirgum",
			"recommendation": "Ieteicams apskatīt"
		},
		"checklistItems": "1. Pārbaudīt ķēdi",
		"comparison": "Pie 200 000 km",
		"summary": "Labs variants"
	}]}`
	srv := jsonServer(t, http.StatusOK, body)

	got, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	r := got[0]

	if r.Listing.Price != 12500 {
		t.Errorf("price = %v, want 12500", r.Listing.Price)
	}
	if r.Listing.Mileage != 187000 {
		t.Errorf("mileage = %d, want 187000", r.Listing.Mileage)
	}
	if r.Listing.Year != 2016 {
		t.Errorf("year = %d, want 2016", r.Listing.Year)
	}
	wantFeatures := []string{"Navigācija", "Ādas salons", "Xenon"}
	if !reflect.DeepEqual(r.Listing.Features, wantFeatures) {
		t.Errorf("features = %v, want %v", r.Listing.Features, wantFeatures)
	}
	if r.Listing.Location != recommendation.DefaultLocation {
		t.Errorf("location = %q, want %q", r.Listing.Location, recommendation.DefaultLocation)
	}
	if r.Listing.Condition != recommendation.DefaultCondition {
		t.Errorf("condition = %q", r.Listing.Condition)
	}
	if r.Listing.SellerType != recommendation.DefaultSellerType {
		t.Errorf("seller type = %q", r.Listing.SellerType)
	}
	if r.Analysis.MatchScore != 87 {
		t.Errorf("match score = %v, want 87", r.Analysis.MatchScore)
	}
	if r.Analysis.Strengths == nil || len(r.Analysis.Strengths) != 0 {
		t.Errorf("strengths = %#v, want empty non-nil slice", r.Analysis.Strengths)
	}
	if r.Analysis.Recommendation != "Ieteicams apskatīt" {
		t.Errorf("recommendation = %q", r.Analysis.Recommendation)
	}
	if r.ChecklistItems != "1. Pārbaudīt ķēdi" || r.Comparison != "Pie 200 000 km" || r.Summary != "Labs variants" {
		t.Errorf("sections = %q / %q / %q", r.ChecklistItems, r.Comparison, r.Summary)
	}
}

func TestSearch_DefaultsForEmptyCarDetails(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"ok": true, "data": [{"carDetails": {}}]}`)

	got, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := recommendation.Recommendation{
		Listing: recommendation.Listing{
			Condition:  "Used",
			Location:   "Latvia",
			SellerType: "Private",
			Features:   []string{},
		},
		Analysis: recommendation.Analysis{
			Strengths:      []string{},
			Considerations: []string{},
			Recommendation: "Consider this vehicle based on your criteria",
		},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("defaults mismatch:\ngot:  %+v\nwant: %+v", got[0], want)
	}
}

func TestSearch_WrongTypedFieldsFallBack(t *testing.T) {
	body := `{"ok": true, "data": [{
		"carDetails": {"id": 17, "price": "cena pēc vienošanās", "year": null, "location": "", "features": "ABS, ESP"},
		"aiAnalysis": {"matchScore": "n/a", "strengths": "Uzticams", "recommendation": false},
		"checklistItems": ["1. Dzinējs", "2. Kārba"]
	}]}`
	srv := jsonServer(t, http.StatusOK, body)

	got, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	r := got[0]

	if r.Listing.ID != "" {
		t.Errorf("id = %q, want empty for numeric id", r.Listing.ID)
	}
	if r.Listing.Price != 0 {
		t.Errorf("price = %v, want 0 for non-numeric string", r.Listing.Price)
	}
	if r.Listing.Location != "Latvia" {
		t.Errorf("location = %q, want fallback for empty string", r.Listing.Location)
	}
	if len(r.Listing.Features) != 0 {
		t.Errorf("features = %v, want empty for non-array", r.Listing.Features)
	}
	if r.Analysis.MatchScore != 0 || len(r.Analysis.Strengths) != 0 {
		t.Errorf("analysis = %+v", r.Analysis)
	}
	if r.Analysis.Recommendation != recommendation.DefaultRecommendation {
		t.Errorf("recommendation = %q", r.Analysis.Recommendation)
	}
	if r.ChecklistItems != "" {
		t.Errorf("checklist = %q, want empty for array value", r.ChecklistItems)
	}
}

func TestSearch_BackendError(t *testing.T) {
	srv := jsonServer(t, http.StatusTooManyRequests,
		`{"detail":"Service is currently busy. Please try again in a few minutes."}`)

	before := testutil.ToFloat64(metrics.BackendRequestsTotal.WithLabelValues("search", metrics.OutcomeBackendError))

	_, err := newTestClient(srv.URL).Search(context.Background(), testFilters(t))
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("err = %v, want ErrBackend", err)
	}
	var be *domain.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if be.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", be.StatusCode)
	}
	if be.Body != `{"detail":"Service is currently busy. Please try again in a few minutes."}` {
		t.Errorf("body = %q", be.Body)
	}

	after := testutil.ToFloat64(metrics.BackendRequestsTotal.WithLabelValues("search", metrics.OutcomeBackendError))
	if after-before != 1 {
		t.Errorf("backend_error counter grew by %f, want 1", after-before)
	}
}

func TestSearch_TimeoutCancelsRequest(t *testing.T) {
	cancelled := make(chan struct{})
	var wrote atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			close(cancelled)
			return
		case <-time.After(5 * time.Second):
			wrote.Store(true)
			_, _ = io.WriteString(w, `{"ok": true, "data": []}`)
		}
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	got, err := c.Search(context.Background(), testFilters(t))
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if errors.Is(err, domain.ErrBackend) || errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("timeout must be distinct from other failures: %v", err)
	}
	if got != nil {
		t.Error("expected no results on timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Search returned after %s, expected prompt cancellation", elapsed)
	}

	select {
	case <-cancelled:
	case <-time.After(3 * time.Second):
		t.Fatal("backend never observed request cancellation")
	}
	if wrote.Load() {
		t.Error("backend produced a response after cancellation")
	}
}

func TestSearch_CallerCancellationIsNotTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(srv.URL).Search(ctx, testFilters(t))
	if errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("caller cancellation reported as timeout: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled in chain", err)
	}
}

func TestSearch_CallerDeadlineIsNotTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).Search(ctx, testFilters(t))
	if errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("caller deadline reported as client timeout: %v", err)
	}
	if !errors.Is(err, domain.ErrBackend) {
		t.Errorf("err = %v, want ErrBackend", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded in chain", err)
	}
}

func TestSearch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Search(context.Background(), testFilters(t))
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("err = %v, want ErrBackend", err)
	}
	if errors.Is(err, domain.ErrTimeout) {
		t.Error("connection failure must not be a timeout")
	}
}

func TestSearch_ForwardsRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "host/abc-000001" {
			t.Errorf("X-Request-ID = %q, want host/abc-000001", got)
		}
		_, _ = io.WriteString(w, `{"ok": true, "data": []}`)
	}))
	defer srv.Close()

	ctx := logpkg.ContextWithRequestID(context.Background(), "host/abc-000001")
	if _, err := newTestClient(srv.URL).Search(ctx, testFilters(t)); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&Config{})
	if c.searchURL != "http://localhost:8000/api/search" {
		t.Errorf("searchURL = %q", c.searchURL)
	}
	if c.timeout != 120*time.Second {
		t.Errorf("timeout = %s, want 2m0s", c.timeout)
	}

	c = NewClient(&Config{BaseURL: "http://backend:9000/", SearchPath: "v2/search"})
	if c.searchURL != "http://backend:9000/v2/search" {
		t.Errorf("searchURL = %q", c.searchURL)
	}
}

func TestHealthCheck(t *testing.T) {
	ok := jsonServer(t, http.StatusOK, `{"message": "AutoAdvisor API is running!"}`)
	if err := newTestClient(ok.URL).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}

	down := jsonServer(t, http.StatusServiceUnavailable, `{}`)
	err := newTestClient(down.URL).HealthCheck(context.Background())
	if !errors.Is(err, domain.ErrBackend) {
		t.Errorf("err = %v, want ErrBackend", err)
	}
}

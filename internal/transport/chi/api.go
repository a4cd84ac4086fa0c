package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	healthuc "github.com/kailas-cloud/autoadvisor/internal/usecase/health"
	"github.com/kailas-cloud/autoadvisor/internal/version"
)

const maxRequestBodyBytes = 64 << 10

// SearchAPI handles POST /api/search.
func (s *Server) SearchAPI(w http.ResponseWriter, r *http.Request) {
	var f filter.Filters
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, domain.ErrInvalidFilters) {
			writeError(w, http.StatusBadRequest, codeInvalidFilters, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body")
		return
	}

	results, err := s.search.Search(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []rec.Recommendation{}
	}

	writeJSON(w, http.StatusOK, apiResponse{OK: true, Data: results})
}

type healthResponse struct {
	Status    healthuc.Status                 `json:"status"`
	Checks    map[string]healthuc.CheckResult `json:"checks"`
	CheckedAt time.Time                       `json:"checked_at"`
	Version   string                          `json:"version"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    report.Status,
		Checks:    report.Checks,
		CheckedAt: report.CheckedAt,
		Version:   version.String(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

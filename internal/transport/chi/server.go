package chi

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	healthuc "github.com/kailas-cloud/autoadvisor/internal/usecase/health"
	searchuc "github.com/kailas-cloud/autoadvisor/internal/usecase/search"
)

// Error codes returned by the JSON API.
const (
	codeBadRequest        = "bad_request"
	codeNoFilters         = "no_filters"
	codeInvalidFilters    = "invalid_filters"
	codeTimeout           = "timeout"
	codeBackendError      = "backend_error"
	codeMalformedResponse = "malformed_response"
	codeUnauthorized      = "unauthorized"
	codeInternalError     = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search pages and the JSON API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	pages         *template.Template
	errorHandlers []errorHandler
}

// NewServer creates the HTTP server handlers.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
		pages:  parsePages(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNoFilters, http.StatusBadRequest, codeNoFilters),
		sentinelHandler(domain.ErrInvalidFilters, http.StatusBadRequest, codeInvalidFilters),
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, codeTimeout),
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway, codeMalformedResponse),
		sentinelHandler(domain.ErrBackend, http.StatusBadGateway, codeBackendError),
	}
	return s
}

// apiResponse is the JSON API envelope, mirroring the backend's {ok, data}.
type apiResponse struct {
	OK    bool      `json:"ok"`
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiResponse{
		OK:    false,
		Error: &apiError{Code: code, Message: message},
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNoFilters,
		domain.ErrInvalidFilters,
		domain.ErrTimeout,
		domain.ErrMalformedResponse,
		domain.ErrBackend,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

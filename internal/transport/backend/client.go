package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/autoadvisor/internal/logger"
	"github.com/kailas-cloud/autoadvisor/internal/metrics"
)

const (
	// DefaultBaseURL is the address of a locally running recommendation backend.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultSearchPath is the backend search endpoint.
	DefaultSearchPath = "/api/search"
	// DefaultTimeout bounds a single search round trip.
	DefaultTimeout = 120 * time.Second

	healthTimeout = 5 * time.Second

	maxErrorBody    = 64 << 10
	maxResponseBody = 32 << 20
)

// errClientDeadline marks cancellation caused by the client's own timeout.
var errClientDeadline = errors.New("backend client deadline")

// Client sends search filters to the recommendation backend and normalizes its replies.
// It is safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	searchURL string
	timeout   time.Duration
	logger    *zap.Logger
}

// Config holds the backend client settings. Zero values fall back to the defaults.
type Config struct {
	BaseURL    string
	SearchPath string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg *Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	path := cfg.SearchPath
	if path == "" {
		path = DefaultSearchPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		searchURL: baseURL + path,
		timeout:   timeout,
		logger:    logger,
	}
}

// envelope is the outer wrapper of every backend reply.
type envelope struct {
	OK   json.RawMessage `json:"ok"`
	Data json.RawMessage `json:"data"`
}

// Search issues exactly one POST with the given filters and returns the normalized recommendations.
//
// Failures: domain.ErrTimeout when the client deadline elapses, *domain.BackendError
// (errors.Is ErrBackend) for non-2xx replies and transport failures, and
// domain.ErrMalformedResponse when a 2xx body breaks the {ok: true, data: [...]} envelope
// or any element lacks carDetails. No partial results and no retries.
func (c *Client) Search(ctx context.Context, f filter.Filters) ([]rec.Recommendation, error) {
	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() {
		metrics.BackendRequestsTotal.WithLabelValues("search", outcome).Inc()
		metrics.BackendRequestDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeoutCause(ctx, c.timeout, errClientDeadline)
	defer cancel()

	body, err := json.Marshal(f)
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return nil, fmt.Errorf("encode filters: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	log := c.logger.With(zap.String("request_id", req.Header.Get("X-Request-ID")))
	log.Debug("Sending search request", zap.String("url", c.searchURL), zap.ByteString("filters", body))

	resp, err := c.http.Do(req)
	if err != nil {
		outcome, err = c.classifyTransport(ctx, err)
		log.Warn("Search request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, rerr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if rerr != nil {
			outcome, err = c.classifyTransport(ctx, rerr)
			return nil, err
		}
		outcome = metrics.OutcomeBackendError
		log.Warn("Backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(text)),
		)
		return nil, domain.NewBackendError(resp.StatusCode, string(text))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		outcome, err = c.classifyTransport(ctx, err)
		return nil, err
	}

	results, err := decodeEnvelope(raw)
	if err != nil {
		outcome = metrics.OutcomeMalformed
		log.Warn("Invalid backend response", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, err
	}

	metrics.RecommendationsReturned.Observe(float64(len(results)))
	log.Debug("Search completed",
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// decodeEnvelope validates {ok: true, data: [...]} and normalizes every element.
// One bad element fails the whole batch.
func decodeEnvelope(raw []byte) ([]rec.Recommendation, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	var ok bool
	if len(env.OK) == 0 || json.Unmarshal(env.OK, &ok) != nil || !ok {
		return nil, fmt.Errorf("%w: expected {ok: true, data: Array}", domain.ErrMalformedResponse)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: expected {ok: true, data: Array}", domain.ErrMalformedResponse)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	out := make([]rec.Recommendation, 0, len(items))
	for i, item := range items {
		r, err := normalizeItem(item, i)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// classifyTransport separates the client deadline from other round-trip failures.
// A deadline inherited from the caller is a transport failure, not ErrTimeout.
func (c *Client) classifyTransport(ctx context.Context, err error) (string, error) {
	if errors.Is(context.Cause(ctx), errClientDeadline) {
		return metrics.OutcomeTimeout, fmt.Errorf("%w after %s", domain.ErrTimeout, c.timeout)
	}
	return metrics.OutcomeTransportError, fmt.Errorf("%w: %w", domain.ErrBackend, err)
}

// HealthCheck verifies that the backend answers on its root endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() {
		metrics.BackendRequestsTotal.WithLabelValues("health", outcome).Inc()
		metrics.BackendRequestDuration.WithLabelValues("health").Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = metrics.OutcomeTransportError
		return fmt.Errorf("backend health: %w: %w", domain.ErrBackend, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = metrics.OutcomeBackendError
		return domain.NewBackendError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}

// requestID forwards the inbound request id, or mints one for standalone callers.
func requestID(ctx context.Context) string {
	if id := logpkg.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

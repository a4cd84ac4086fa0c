package autoadvisor

import (
	"context"
	"fmt"
	"time"

	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	"github.com/kailas-cloud/autoadvisor/internal/transport/backend"
	healthuc "github.com/kailas-cloud/autoadvisor/internal/usecase/health"
	searchuc "github.com/kailas-cloud/autoadvisor/internal/usecase/search"
)

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, f filter.Filters) ([]rec.Recommendation, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the AutoAdvisor SDK entry point. It is safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. No connection is made until the first call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	bc := backend.NewClient(&backend.Config{
		BaseURL:    cfg.baseURL,
		SearchPath: cfg.searchPath,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
	})

	return &Client{
		searchSvc: searchuc.New(bc),
		healthSvc: healthuc.New(bc),
		obs:       obs,
	}, nil
}

// Search sends the criteria to the backend and returns normalized recommendations.
// At least one criterion must be set. Errors match ErrTimeout, ErrBackend,
// ErrMalformedResponse, ErrNoFilters or ErrInvalidFilters via errors.Is.
func (c *Client) Search(ctx context.Context, criteria Criteria) (recs []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.search(start, len(recs), err) }()

	f, err := criteria.toFilters()
	if err != nil {
		return nil, fmt.Errorf("autoadvisor: %w", err)
	}

	recs, err = c.searchSvc.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("autoadvisor: %w", err)
	}
	return recs, nil
}

// Health checks whether the backend answers.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	c.obs.health(start, string(report.Status))

	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

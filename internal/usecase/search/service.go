package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/autoadvisor/internal/domain"
	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	logpkg "github.com/kailas-cloud/autoadvisor/internal/logger"
)

// Service runs vehicle searches on behalf of the UI and the JSON API.
type Service struct {
	backend Searcher
}

// New creates a search service.
func New(backend Searcher) *Service {
	return &Service{backend: backend}
}

// Search rejects filters without criteria and otherwise delegates to the backend.
// Backend errors are returned wrapped, never retried.
func (s *Service) Search(ctx context.Context, f filter.Filters) ([]rec.Recommendation, error) {
	if f.IsEmpty() {
		return nil, domain.ErrNoFilters
	}

	log := logpkg.FromContext(ctx)
	start := time.Now()

	results, err := s.backend.Search(ctx, f)
	if err != nil {
		log.Warn("Search failed",
			zap.Error(err),
			zap.Bool("timeout", errors.Is(err, domain.ErrTimeout)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("search: %w", err)
	}

	log.Info("Search completed",
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

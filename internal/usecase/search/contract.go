package search

import (
	"context"

	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
)

// Searcher performs one round trip to the recommendation backend.
type Searcher interface {
	Search(ctx context.Context, f filter.Filters) ([]rec.Recommendation, error)
}

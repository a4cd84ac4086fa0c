package autoadvisor

import (
	"context"

	rec "github.com/kailas-cloud/autoadvisor/internal/domain/recommendation"
	"github.com/kailas-cloud/autoadvisor/internal/domain/search/filter"
	healthuc "github.com/kailas-cloud/autoadvisor/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, f filter.Filters) ([]rec.Recommendation, error)
}

func (m *mockSearchUC) Search(ctx context.Context, f filter.Filters) ([]rec.Recommendation, error) {
	return m.searchFn(ctx, f)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

package mechfind

import (
	"context"

	domprov "github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	healthuc "github.com/cardoc/mechfind/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error) {
	return m.searchFn(ctx, q)
}

// --- providerRepo mock ---

type mockRepo struct {
	fetchFn  func(ctx context.Context) ([]domprov.ServiceProvider, error)
	saveFn   func(ctx context.Context, providers ...domprov.ServiceProvider) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockRepo) FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error) {
	return m.fetchFn(ctx)
}

func (m *mockRepo) Save(ctx context.Context, providers ...domprov.ServiceProvider) error {
	return m.saveFn(ctx, providers...)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(searchSvc searchUseCase, repo providerRepo, health healthUseCase, obs *observer) *Client {
	return &Client{
		searchSvc:    searchSvc,
		repo:         repo,
		healthSvc:    health,
		fetchTimeout: defaultFetchTimeout,
		obs:          obs,
	}
}

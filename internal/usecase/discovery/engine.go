package discovery

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/domain"
	"github.com/cardoc/mechfind/internal/domain/geo"
	"github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
	"github.com/cardoc/mechfind/internal/logger"
	"github.com/cardoc/mechfind/internal/metrics"
)

// Engine filters and ranks providers for a search query.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	store  ProviderStore
	logger *zap.Logger
}

// New creates a discovery engine.
func New(store ProviderStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger}
}

// Search fetches candidates, applies the text filter, computes distances and sorts.
// Store faults are returned as *domain.StoreUnavailableError.
func (e *Engine) Search(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error) {
	mode := q.SortMode()

	candidates, err := e.fetch(ctx, q.Text())
	if err != nil {
		// some clients report a generic I/O error when the deadline fires
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", err, ctxErr)
		}
		metrics.SearchesTotal.WithLabelValues(mode.String(), "store_error").Inc()
		e.log(ctx).Warn("Provider fetch failed",
			zap.String("sort", mode.String()),
			zap.Error(err),
		)
		return ranked.Outcome{}, domain.NewStoreUnavailable(fmt.Errorf("fetch providers: %w", err))
	}

	origin, hasOrigin := q.Origin()
	m := newMatcher(q.Text())

	results := make([]ranked.Result, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		if !m.Match(p) {
			continue
		}
		results = append(results, rank(p, origin, hasOrigin))
	}

	applied := mode
	fallback := false
	if mode == sortmode.ByDistance && !hasOrigin {
		applied = sortmode.ByRating
		fallback = true
		metrics.SearchFallbacksTotal.Inc()
	}
	sortResults(results, applied)

	metrics.SearchesTotal.WithLabelValues(mode.String(), "ok").Inc()
	metrics.SearchResults.Observe(float64(len(results)))
	e.log(ctx).Debug("Provider search completed",
		zap.String("sort", applied.String()),
		zap.Bool("fallback", fallback),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(results)),
	)

	return ranked.Outcome{
		Results:         results,
		FallbackApplied: fallback,
		AppliedSort:     applied,
	}, nil
}

func (e *Engine) fetch(ctx context.Context, text string) ([]provider.ServiceProvider, error) {
	if text != "" {
		if tf, ok := e.store.(TextFetcher); ok {
			return tf.FetchByTagOrName(ctx, text) //nolint:wrapcheck // wrapped by caller
		}
	}
	return e.store.FetchAll(ctx) //nolint:wrapcheck // wrapped by caller
}

// log prefers the request-scoped logger when one is attached.
func (e *Engine) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, e.logger)
}

// rank attaches a distance when both the origin and a valid provider location exist.
func rank(p *provider.ServiceProvider, origin geo.Point, hasOrigin bool) ranked.Result {
	if !hasOrigin {
		return ranked.New(*p)
	}
	loc, ok := p.Location()
	if !ok || !loc.Valid() {
		return ranked.New(*p)
	}
	return ranked.WithDistance(*p, origin.DistanceKm(loc))
}

package discovery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/metrics"
)

// InstrumentedStore wraps a ProviderStore with fetch metrics and logging.
// It always exposes FetchByTagOrName; when the inner store has no push-down
// the call degrades to FetchAll, which is a valid superset.
type InstrumentedStore struct {
	inner   ProviderStore
	backend string
	logger  *zap.Logger
}

// NewInstrumentedStore wraps a store. backend labels the metrics ("valkey", "sqlite", ...).
func NewInstrumentedStore(inner ProviderStore, backend string, logger *zap.Logger) *InstrumentedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedStore{inner: inner, backend: backend, logger: logger}
}

// FetchAll delegates to the inner store and records duration and candidate count.
func (s *InstrumentedStore) FetchAll(ctx context.Context) ([]provider.ServiceProvider, error) {
	start := time.Now()
	out, err := s.inner.FetchAll(ctx)
	s.observe("fetch_all", start, len(out), err)
	if err != nil {
		return nil, fmt.Errorf("fetch all: %w", err)
	}
	return out, nil
}

// FetchByTagOrName pushes the text filter down when the inner store supports it.
func (s *InstrumentedStore) FetchByTagOrName(
	ctx context.Context, substring string,
) ([]provider.ServiceProvider, error) {
	tf, ok := s.inner.(TextFetcher)
	if !ok {
		return s.FetchAll(ctx)
	}

	start := time.Now()
	out, err := tf.FetchByTagOrName(ctx, substring)
	s.observe("fetch_by_text", start, len(out), err)
	if err != nil {
		return nil, fmt.Errorf("fetch by tag or name: %w", err)
	}
	return out, nil
}

// PushDown reports whether the inner store filters by text itself.
func (s *InstrumentedStore) PushDown() bool {
	_, ok := s.inner.(TextFetcher)
	return ok
}

func (s *InstrumentedStore) observe(method string, start time.Time, n int, err error) {
	duration := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
		s.logger.Debug("Provider store fetch failed",
			zap.String("backend", s.backend),
			zap.String("method", method),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	} else {
		metrics.StoreCandidates.WithLabelValues(s.backend, method).Observe(float64(n))
	}
	metrics.StoreFetchDuration.WithLabelValues(s.backend, method, status).Observe(duration.Seconds())
}

package provider

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	domprov "github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/metrics"
)

type fetcher interface {
	FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error)
}

type textFetcher interface {
	FetchByTagOrName(ctx context.Context, substring string) ([]domprov.ServiceProvider, error)
}

// Coalesced shares one in-flight fetch among concurrent identical requests.
// Nothing is cached: once a fetch returns, the next request hits the store again.
type Coalesced struct {
	inner   fetcher
	group   singleflight.Group
	timeout time.Duration
}

// NewCoalesced wraps a store. timeout bounds the shared fetch, which outlives
// any single caller's cancellation; zero means no bound beyond the store's own.
func NewCoalesced(inner fetcher, timeout time.Duration) *Coalesced {
	return &Coalesced{inner: inner, timeout: timeout}
}

// FetchAll joins or starts a shared full fetch.
func (c *Coalesced) FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error) {
	return c.do(ctx, "all", c.inner.FetchAll)
}

// FetchByTagOrName joins or starts a shared push-down fetch. Without push-down
// support in the inner store it shares the full fetch instead.
func (c *Coalesced) FetchByTagOrName(ctx context.Context, substring string) ([]domprov.ServiceProvider, error) {
	tf, ok := c.inner.(textFetcher)
	if !ok {
		return c.FetchAll(ctx)
	}
	needle := strings.ToLower(substring)
	return c.do(ctx, "text:"+needle, func(ctx context.Context) ([]domprov.ServiceProvider, error) {
		return tf.FetchByTagOrName(ctx, needle)
	})
}

func (c *Coalesced) do(
	ctx context.Context, key string,
	fn func(context.Context) ([]domprov.ServiceProvider, error),
) ([]domprov.ServiceProvider, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			shared, cancel = context.WithTimeout(shared, c.timeout)
			defer cancel()
		}
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for shared fetch: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err //nolint:wrapcheck // already wrapped by the store
		}
		out, _ := res.Val.([]domprov.ServiceProvider)
		if res.Shared {
			metrics.CoalescedFetchesTotal.Inc()
			out = slices.Clone(out)
		}
		return out, nil
	}
}

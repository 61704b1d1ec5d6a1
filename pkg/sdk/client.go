package mechfind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/bootstrap"
	"github.com/cardoc/mechfind/internal/config"
	"github.com/cardoc/mechfind/internal/domain/geo"
	domprov "github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
	"github.com/cardoc/mechfind/internal/usecase/discovery"
	healthuc "github.com/cardoc/mechfind/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultFetchTimeout     = 2 * time.Second
)

// Internal interfaces, replaced in tests.
type searchUseCase interface {
	Search(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type providerRepo interface {
	FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error)
	Save(ctx context.Context, providers ...domprov.ServiceProvider) error
	Delete(ctx context.Context, id string) error
}

// Client is the mechfind SDK entry point. It is safe for concurrent use.
type Client struct {
	pinger       pinger
	closer       func()
	searchSvc    searchUseCase
	repo         providerRepo
	healthSvc    healthUseCase
	fetchTimeout time.Duration
	obs          *observer
}

// New creates a Client and connects to the store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{fetchTimeout: defaultFetchTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.driver == "" {
		return nil, errors.New("mechfind: store required (use WithValkey, WithRedis or WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	backend, err := bootstrap.Open(ctx, config.DatabaseConfig{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		SQLitePath:       cfg.sqlitePath,
		KeyPrefix:        cfg.keyPrefix,
		ReadinessTimeout: int(defaultReadinessTimeout / time.Second),
	}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("mechfind: %w", err)
	}

	return wireClient(backend, cfg, obs), nil
}

func wireClient(backend *bootstrap.Backend, cfg *clientConfig, obs *observer) *Client {
	store := backend.SearchStore(config.DiscoveryConfig{
		FetchTimeoutMs:  int(cfg.fetchTimeout / time.Millisecond),
		CoalesceFetches: cfg.coalesce,
	}, zap.NewNop())

	return &Client{
		pinger:       backend,
		closer:       backend.Close,
		searchSvc:    discovery.New(store, zap.NewNop()),
		repo:         backend.Repo,
		healthSvc:    healthuc.New(backend),
		fetchTimeout: cfg.fetchTimeout,
		obs:          obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ping", start, err) }()

	if err = c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search filters and ranks stored providers.
// Errors match ErrInvalidQuery or ErrStoreUnavailable via errors.Is.
func (c *Client) Search(ctx context.Context, q Query) (res SearchResult, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe(ctx, "search", start, err,
			slog.String("sort", string(q.Sort)),
			slog.Int("results", len(res.Results)),
		)
	}()

	var origin *geo.Point
	if q.Origin != nil {
		p := geo.NewPoint(q.Origin.Lat, q.Origin.Lon)
		origin = &p
	}
	sq, err := query.New(q.Text, origin, sortmode.Mode(q.Sort))
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	out, err := c.searchSvc.Search(ctx, &sq)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return searchResultFromDomain(out), nil
}

// Upsert validates and stores providers, replacing records with the same ID.
// Nothing is written if any record is invalid.
func (c *Client) Upsert(ctx context.Context, providers ...Provider) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "upsert", start, err, slog.Int("count", len(providers))) }()

	doms := make([]domprov.ServiceProvider, 0, len(providers))
	for i := range providers {
		p := &providers[i]
		d, err := domprov.New(p.ID, p.Name, p.Rating, p.ReviewCount, p.Lat, p.Lon, p.Tags)
		if err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		doms = append(doms, d)
	}
	if err := c.repo.Save(ctx, doms...); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Delete removes providers by ID. Missing IDs are ignored.
func (c *Client) Delete(ctx context.Context, ids ...string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "delete", start, err, slog.Int("count", len(ids))) }()

	for _, id := range ids {
		if err := c.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return nil
}

// List returns every stored provider.
func (c *Client) List(ctx context.Context) (_ []Provider, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "list", start, err) }()

	doms, err := c.repo.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]Provider, 0, len(doms))
	for i := range doms {
		out = append(out, providerFromDomain(&doms[i]))
	}
	return out, nil
}

func searchResultFromDomain(o ranked.Outcome) SearchResult {
	res := SearchResult{
		Results:         make([]Result, 0, len(o.Results)),
		FallbackApplied: o.FallbackApplied,
		Sort:            SortMode(o.AppliedSort),
	}
	for i := range o.Results {
		r := &o.Results[i]
		p := r.Provider()
		out := Result{Provider: providerFromDomain(&p)}
		if d, ok := r.DistanceKm(); ok {
			out.DistanceKm = &d
		}
		res.Results = append(res.Results, out)
	}
	return res
}

func providerFromDomain(p *domprov.ServiceProvider) Provider {
	out := Provider{ID: p.ID(), Name: p.Name(), Tags: p.Tags()}
	if v, ok := p.Rating(); ok {
		out.Rating = &v
	}
	if v, ok := p.ReviewCount(); ok {
		out.ReviewCount = &v
	}
	if loc, ok := p.Location(); ok {
		out.Lat, out.Lon = &loc.Lat, &loc.Lon
	}
	return out
}

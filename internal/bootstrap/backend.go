// Package bootstrap opens the configured provider store for the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/config"
	"github.com/cardoc/mechfind/internal/db"
	dbSQLite "github.com/cardoc/mechfind/internal/db/sqlite"
	dbValkey "github.com/cardoc/mechfind/internal/db/valkey"
	domprov "github.com/cardoc/mechfind/internal/domain/provider"
	providerrepo "github.com/cardoc/mechfind/internal/repository/provider"
	"github.com/cardoc/mechfind/internal/usecase/discovery"
)

// Repository is the read/write provider repository behind a backend.
type Repository interface {
	FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error)
	Save(ctx context.Context, providers ...domprov.ServiceProvider) error
	Delete(ctx context.Context, id string) error
}

// Backend is an opened, ready provider store.
type Backend struct {
	Driver string
	Repo   Repository
	pinger db.Pinger
	close  func()
}

// Open connects to the configured driver and waits until it answers.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Backend, error) {
	readiness := time.Duration(cfg.ReadinessTimeout) * time.Second

	switch cfg.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:      cfg.Addrs,
			Username:   cfg.Username,
			Password:   cfg.Password,
			DB:         cfg.DB,
			ClientName: "mechfind",
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Driver),
			zap.Strings("addrs", cfg.Addrs),
		)
		return &Backend{
			Driver: cfg.Driver,
			Repo:   providerrepo.NewHashRepo(store, cfg.KeyPrefix),
			pinger: store,
			close:  store.Close,
		}, nil

	case config.DriverSQLite:
		store, err := dbSQLite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("sqlite not ready: %w", err)
		}
		logger.Info("Opened database",
			zap.String("driver", cfg.Driver),
			zap.String("path", store.Path()),
			zap.String("sqlite_driver", dbSQLite.DriverName),
		)
		return &Backend{
			Driver: cfg.Driver,
			Repo:   providerrepo.NewSQLRepo(store.DB()),
			pinger: store,
			close:  store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Ping checks the underlying connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.pinger.Ping(ctx) //nolint:wrapcheck // db.Error already carries the op
}

// Close releases the connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// SearchStore assembles the read path used by the discovery engine:
// repository -> instrumented -> coalesced (optional).
func (b *Backend) SearchStore(cfg config.DiscoveryConfig, logger *zap.Logger) discovery.ProviderStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	instrumented := discovery.NewInstrumentedStore(b.Repo, b.Driver, logger)
	var store discovery.ProviderStore = instrumented
	if cfg.CoalesceFetches {
		store = providerrepo.NewCoalesced(store, cfg.FetchTimeout())
	}
	logger.Info("Search store ready",
		zap.String("driver", b.Driver),
		zap.Bool("push_down", instrumented.PushDown()),
		zap.Bool("coalesced", cfg.CoalesceFetches),
	)
	return store
}

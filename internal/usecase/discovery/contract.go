package discovery

import (
	"context"

	"github.com/cardoc/mechfind/internal/domain/provider"
)

// ProviderStore supplies the candidate set for a search.
// Any error it returns is reported to the caller as domain.ErrStoreUnavailable.
type ProviderStore interface {
	FetchAll(ctx context.Context) ([]provider.ServiceProvider, error)
}

// TextFetcher is an optional push-down capability of a ProviderStore.
// It must return a superset of the providers whose name or any tag contains
// the substring (case-insensitive). The engine re-applies its own filter.
type TextFetcher interface {
	FetchByTagOrName(ctx context.Context, substring string) ([]provider.ServiceProvider, error)
}

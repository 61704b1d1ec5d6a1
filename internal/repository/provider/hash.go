package provider

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cardoc/mechfind/internal/db"
	domprov "github.com/cardoc/mechfind/internal/domain/provider"
)

// DefaultKeyPrefix namespaces provider hashes.
const DefaultKeyPrefix = "mechfind:"

// hashStore is the consumer interface for the hash-backed repository (ISP).
type hashStore interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// HashRepo stores one Valkey/Redis hash per provider under <prefix>provider:<id>.
// It has no secondary index, so text push-down is not offered.
type HashRepo struct {
	store  hashStore
	prefix string
}

// NewHashRepo creates a hash-backed provider repository. Empty prefix uses DefaultKeyPrefix.
func NewHashRepo(s hashStore, prefix string) *HashRepo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &HashRepo{store: s, prefix: prefix}
}

// FetchAll returns every stored provider ordered by key.
func (r *HashRepo) FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan providers: %w", err)
	}
	if len(keys) == 0 {
		return []domprov.ServiceProvider{}, nil
	}
	slices.Sort(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load providers: %w", err)
	}

	out := make([]domprov.ServiceProvider, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		out = append(out, parseHashFields(strings.TrimPrefix(keys[i], r.keyPrefix()), h))
	}
	return out, nil
}

// Save replaces the stored hashes of the given providers in one round-trip.
func (r *HashRepo) Save(ctx context.Context, providers ...domprov.ServiceProvider) error {
	if len(providers) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(providers))
	for i := range providers {
		items[i] = db.HashSetItem{
			Key:    r.key(providers[i].ID()),
			Fields: buildHashFields(&providers[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d providers: %w", len(items), err)
	}
	return nil
}

// Delete removes a provider. Deleting a missing provider is not an error.
func (r *HashRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete provider %s: %w", id, err)
	}
	return nil
}

func (r *HashRepo) keyPrefix() string { return r.prefix + "provider:" }

func (r *HashRepo) key(id string) string { return r.keyPrefix() + id }

package provider

import (
	"context"
	"strings"

	"github.com/cardoc/mechfind/internal/db"
	domprov "github.com/cardoc/mechfind/internal/domain/provider"
)

// mockHashStore is an in-memory hashStore.
type mockHashStore struct {
	hashes    map[string]map[string]string
	scanErr   error
	getErr    error
	setErr    error
	scanCalls int
}

func newMockHashStore() *mockHashStore {
	return &mockHashStore{hashes: make(map[string]map[string]string)}
}

func (m *mockHashStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	if m.setErr != nil {
		return m.setErr
	}
	for _, it := range items {
		m.hashes[it.Key] = it.Fields
	}
	return nil
}

func (m *mockHashStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *mockHashStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func (m *mockHashStore) Scan(_ context.Context, pattern string) ([]string, error) {
	m.scanCalls++
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func sampleProviders() []domprov.ServiceProvider {
	return []domprov.ServiceProvider{
		domprov.Reconstruct("m1", "John's Auto", f64(4.9), intp(120), f64(3.848), f64(11.502),
			[]string{"Brakes", "ASE Certified"}),
		domprov.Reconstruct("m2", "Elite Car", f64(4.8), nil, f64(3.858), f64(11.512), nil),
		domprov.Reconstruct("m3", "ÉCOLE Mécanique", nil, intp(3), nil, nil, []string{"Électrique"}),
	}
}

package provider

import (
	"context"
	"errors"
	"testing"
)

func TestHashRepo_SaveAndFetchAll(t *testing.T) {
	store := newMockHashStore()
	repo := NewHashRepo(store, "")

	if err := repo.Save(context.Background(), sampleProviders()...); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := store.hashes["mechfind:provider:m1"]; !ok {
		t.Fatalf("expected default key prefix, got keys %v", store.hashes)
	}

	got, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(got))
	}
	if got[0].ID() != "m1" || got[1].ID() != "m2" || got[2].ID() != "m3" {
		t.Errorf("expected key order, got %s %s %s", got[0].ID(), got[1].ID(), got[2].ID())
	}

	m1 := got[0]
	if r, ok := m1.Rating(); !ok || r != 4.9 {
		t.Errorf("rating = %v, %v", r, ok)
	}
	if c, ok := m1.ReviewCount(); !ok || c != 120 {
		t.Errorf("review count = %v, %v", c, ok)
	}
	if loc, ok := m1.Location(); !ok || loc.Lat != 3.848 || loc.Lon != 11.502 {
		t.Errorf("location = %+v, %v", loc, ok)
	}
	if tags := m1.Tags(); len(tags) != 2 || tags[1] != "ASE Certified" {
		t.Errorf("tags = %v", tags)
	}

	if _, ok := got[1].ReviewCount(); ok {
		t.Error("m2 must have no review count")
	}
	if _, ok := got[2].Location(); ok {
		t.Error("m3 must have no location")
	}
}

func TestHashRepo_CustomPrefix(t *testing.T) {
	store := newMockHashStore()
	repo := NewHashRepo(store, "staging:")

	if err := repo.Save(context.Background(), sampleProviders()[:1]...); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := store.hashes["staging:provider:m1"]; !ok {
		t.Fatalf("expected prefixed key, got %v", store.hashes)
	}
}

func TestHashRepo_FetchAllEmpty(t *testing.T) {
	got, err := NewHashRepo(newMockHashStore(), "").FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestHashRepo_SkipsVanishedKeys(t *testing.T) {
	store := newMockHashStore()
	store.hashes["mechfind:provider:gone"] = map[string]string{}
	store.hashes["mechfind:provider:m1"] = map[string]string{"id": "m1", "name": "A"}

	got, err := NewHashRepo(store, "").FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "m1" {
		t.Errorf("unexpected providers: %d", len(got))
	}
}

func TestHashRepo_TolerantHydration(t *testing.T) {
	store := newMockHashStore()
	store.hashes["mechfind:provider:x"] = map[string]string{
		"name":   "No ID Field",
		"rating": "not-a-number",
		"lat":    "3.8",
		"tags":   "{broken",
	}

	got, err := NewHashRepo(store, "").FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	p := got[0]
	if p.ID() != "x" {
		t.Errorf("expected id from key, got %q", p.ID())
	}
	if _, ok := p.Rating(); ok {
		t.Error("garbage rating must be absent")
	}
	if _, ok := p.Location(); ok {
		t.Error("lone latitude must not yield a location")
	}
	if p.TagCount() != 0 {
		t.Errorf("broken tags must be dropped, got %v", p.Tags())
	}
}

func TestHashRepo_Errors(t *testing.T) {
	cause := errors.New("connection reset")

	store := newMockHashStore()
	store.scanErr = cause
	if _, err := NewHashRepo(store, "").FetchAll(context.Background()); !errors.Is(err, cause) {
		t.Errorf("scan error not propagated: %v", err)
	}

	store = newMockHashStore()
	store.hashes["mechfind:provider:a"] = map[string]string{"name": "A"}
	store.getErr = cause
	if _, err := NewHashRepo(store, "").FetchAll(context.Background()); !errors.Is(err, cause) {
		t.Errorf("hgetall error not propagated: %v", err)
	}

	store = newMockHashStore()
	store.setErr = cause
	if err := NewHashRepo(store, "").Save(context.Background(), sampleProviders()...); !errors.Is(err, cause) {
		t.Errorf("hset error not propagated: %v", err)
	}
}

func TestHashRepo_Delete(t *testing.T) {
	store := newMockHashStore()
	repo := NewHashRepo(store, "")
	_ = repo.Save(context.Background(), sampleProviders()...)

	if err := repo.Delete(context.Background(), "m2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := repo.FetchAll(context.Background())
	if len(got) != 2 {
		t.Errorf("expected 2 providers after delete, got %d", len(got))
	}
}

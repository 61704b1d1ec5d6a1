package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cardoc/mechfind/internal/db"
	domprov "github.com/cardoc/mechfind/internal/domain/provider"
)

const selectProviders = `
SELECT p.id, p.name, p.rating, p.review_count, p.lat, p.lon
FROM providers p`

const selectTags = `
SELECT t.provider_id, t.tag
FROM provider_tags t`

// textPredicate matches the engine filter: lowercase name or any lowercase tag contains the needle.
// Both columns are folded with strings.ToLower on write, so Unicode case rules agree.
const textPredicate = `
WHERE instr(p.name_folded, ?) > 0
   OR EXISTS (SELECT 1 FROM provider_tags pt WHERE pt.provider_id = p.id AND instr(pt.tag_folded, ?) > 0)`

// SQLRepo reads and writes providers in SQLite. It supports text push-down.
type SQLRepo struct {
	conn *sql.DB
}

// NewSQLRepo creates a SQL-backed provider repository.
func NewSQLRepo(conn *sql.DB) *SQLRepo {
	return &SQLRepo{conn: conn}
}

// FetchAll returns every stored provider ordered by id.
func (r *SQLRepo) FetchAll(ctx context.Context) ([]domprov.ServiceProvider, error) {
	return r.fetch(ctx, "")
}

// FetchByTagOrName returns providers whose name or a tag contains substring, case-insensitively.
func (r *SQLRepo) FetchByTagOrName(ctx context.Context, substring string) ([]domprov.ServiceProvider, error) {
	return r.fetch(ctx, strings.ToLower(substring))
}

type providerRow struct {
	id          string
	name        string
	rating      sql.NullFloat64
	reviewCount sql.NullInt64
	lat, lon    sql.NullFloat64
}

func (r *SQLRepo) fetch(ctx context.Context, needle string) ([]domprov.ServiceProvider, error) {
	query := selectProviders
	tagQuery := selectTags
	var args []any
	if needle != "" {
		query += textPredicate
		tagQuery += " WHERE t.provider_id IN (SELECT p.id FROM providers p" + textPredicate + ")"
		args = []any{needle, needle}
	}
	query += " ORDER BY p.id"
	tagQuery += " ORDER BY t.provider_id, t.position"

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("providers: %w", err)}
	}
	defer rows.Close()

	var base []providerRow
	for rows.Next() {
		var pr providerRow
		if err := rows.Scan(&pr.id, &pr.name, &pr.rating, &pr.reviewCount, &pr.lat, &pr.lon); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("scan provider: %w", err)}
		}
		base = append(base, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	tags, err := r.loadTags(ctx, tagQuery, args)
	if err != nil {
		return nil, err
	}

	out := make([]domprov.ServiceProvider, 0, len(base))
	for _, pr := range base {
		out = append(out, domprov.Reconstruct(
			pr.id, pr.name,
			nullFloat(pr.rating), nullInt(pr.reviewCount),
			nullFloat(pr.lat), nullFloat(pr.lon),
			tags[pr.id],
		))
	}
	return out, nil
}

func (r *SQLRepo) loadTags(ctx context.Context, query string, args []any) (map[string][]string, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("provider tags: %w", err)}
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: fmt.Errorf("scan tag: %w", err)}
		}
		tags[id] = append(tags[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return tags, nil
}

// Save upserts providers and replaces their tags in a single transaction.
func (r *SQLRepo) Save(ctx context.Context, providers ...domprov.ServiceProvider) error {
	if len(providers) == 0 {
		return nil
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	for i := range providers {
		if err := saveOne(ctx, tx, &providers[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

func saveOne(ctx context.Context, tx *sql.Tx, p *domprov.ServiceProvider) error {
	var rating, lat, lon sql.NullFloat64
	var reviews sql.NullInt64
	if v, ok := p.Rating(); ok {
		rating = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := p.ReviewCount(); ok {
		reviews = sql.NullInt64{Int64: int64(v), Valid: true}
	}
	if loc, ok := p.Location(); ok {
		lat = sql.NullFloat64{Float64: loc.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: loc.Lon, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
INSERT INTO providers (id, name, name_folded, rating, review_count, lat, lon, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    name_folded = excluded.name_folded,
    rating = excluded.rating,
    review_count = excluded.review_count,
    lat = excluded.lat,
    lon = excluded.lon,
    updated_at = CURRENT_TIMESTAMP`,
		p.ID(), p.Name(), strings.ToLower(p.Name()), rating, reviews, lat, lon)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("provider %s: %w", p.ID(), err)}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM provider_tags WHERE provider_id = ?", p.ID()); err != nil {
		return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("tags of %s: %w", p.ID(), err)}
	}
	for i := range p.TagCount() {
		tag := p.Tag(i)
		_, err := tx.ExecContext(ctx,
			"INSERT INTO provider_tags (provider_id, position, tag, tag_folded) VALUES (?, ?, ?, ?)",
			p.ID(), i, tag, strings.ToLower(tag))
		if err != nil {
			return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("tag %q of %s: %w", tag, p.ID(), err)}
		}
	}
	return nil
}

// Delete removes a provider and its tags. Deleting a missing provider is not an error.
func (r *SQLRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.conn.ExecContext(ctx, "DELETE FROM providers WHERE id = ?", id); err != nil {
		return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("provider %s: %w", id, err)}
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

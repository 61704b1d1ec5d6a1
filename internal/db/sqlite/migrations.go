package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/cardoc/mechfind/internal/db"
)

// Migration is a forward-only schema step.
type Migration struct {
	Version string
	Up      string
}

// Migrations lists schema steps in order.
var Migrations = []Migration{
	{Version: "1.0.0", Up: migrationV1},
	{Version: "1.1.0", Up: migrationV1_1},
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS providers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    name_folded TEXT NOT NULL,
    rating REAL,
    review_count INTEGER,
    lat REAL,
    lon REAL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS provider_tags (
    provider_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    tag_folded TEXT NOT NULL,
    PRIMARY KEY (provider_id, position),
    FOREIGN KEY (provider_id) REFERENCES providers(id) ON DELETE CASCADE
);
`

const migrationV1_1 = `
CREATE INDEX IF NOT EXISTS idx_provider_tags_provider ON provider_tags(provider_id);
CREATE INDEX IF NOT EXISTS idx_providers_rating ON providers(rating);
`

// SchemaVersion returns the latest applied migration, or 0.0.0 on a fresh database.
func SchemaVersion(ctx context.Context, conn *sql.DB) (*semver.Version, error) {
	var name string
	err := conn.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return semver.MustParse("0.0.0"), nil
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("check schema_version: %w", err)}
	}

	rows, err := conn.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("read schema_version: %w", err)}
	}
	defer rows.Close()

	current := semver.MustParse("0.0.0")
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, &db.Error{Op: db.OpMigrate, Err: err}
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("invalid schema version %q: %w", raw, err)}
		}
		if v.GreaterThan(current) {
			current = v
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}
	return current, nil
}

// ApplyMigrations runs every migration newer than the recorded schema version.
func ApplyMigrations(ctx context.Context, conn *sql.DB) error {
	current, err := SchemaVersion(ctx, conn)
	if err != nil {
		return err
	}

	for _, m := range Migrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(v) {
			continue
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			_ = tx.Rollback()
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("apply %s: %w", m.Version, err)}
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			_ = tx.Rollback()
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("record %s: %w", m.Version, err)}
		}
		if err := tx.Commit(); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
		current = v
	}
	return nil
}

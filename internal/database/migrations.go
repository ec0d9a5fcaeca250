package database

import (
	"context"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step. Versions start at 1 and are
// contiguous.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{1, "new_years", migrationV1NewYears},
	{2, "steps_index", migrationV2StepsIndex},
}

func latestVersion() int {
	return migrations[len(migrations)-1].version
}

// migrationV1NewYears creates the new-year cache.
//
// One row per (algorithm, locale, persian_year). The locale is the
// canonical "lat,long" key of the observation point, so the astronomical
// calendar for Tehran and for the 52.5°E meridian are cached separately.
const migrationV1NewYears = `
CREATE TABLE IF NOT EXISTS new_years (
    algorithm TEXT NOT NULL CHECK (algorithm IN ('astronomical', 'arithmetic')),
    locale TEXT NOT NULL,
    persian_year INTEGER NOT NULL CHECK (persian_year <> 0),

    -- RD day number of Farvardin 1
    fixed_date INTEGER NOT NULL,
    year_length INTEGER NOT NULL CHECK (year_length IN (365, 366)),
    steps INTEGER NOT NULL DEFAULT 0,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),

    PRIMARY KEY (algorithm, locale, persian_year)
);

CREATE INDEX IF NOT EXISTS idx_new_years_fixed
    ON new_years(algorithm, locale, fixed_date);
`

// migrationV2StepsIndex supports the solver-step summary in cache stats.
const migrationV2StepsIndex = `
CREATE INDEX IF NOT EXISTS idx_new_years_steps
    ON new_years(steps)
    WHERE steps > 0;
`

const createSchemaMigrations = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// SchemaVersion returns the highest applied migration, or 0 for a fresh
// database.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`,
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_migrations: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Migrate applies pending migrations in one transaction and returns how
// many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return 0, err
	}
	if current >= latestVersion() {
		db.logger.Debug("schema up to date", slog.Int("version", current))
		return 0, nil
	}

	count := 0
	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, createSchemaMigrations); err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		for _, m := range migrations {
			if m.version <= current {
				continue
			}
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("execute migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
				m.version, m.name,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}

			db.logger.Info("applied migration",
				slog.Int("version", m.version),
				slog.String("name", m.name),
			)
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

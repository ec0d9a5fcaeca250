package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// =============================================================================
// Helper Functions
// =============================================================================

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// whereFilter renders the WHERE clause for f.
func whereFilter(f NewYearFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Algorithm != "" {
		conds = append(conds, "algorithm = ?")
		args = append(args, f.Algorithm)
	}
	if f.Locale != "" {
		conds = append(conds, "locale = ?")
		args = append(args, f.Locale)
	}
	if f.FromYear != 0 {
		conds = append(conds, "persian_year >= ?")
		args = append(args, f.FromYear)
	}
	if f.ToYear != 0 {
		conds = append(conds, "persian_year <= ?")
		args = append(args, f.ToYear)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const newYearColumns = `algorithm, locale, persian_year, fixed_date, year_length, steps, created_at`

func scanNewYear(scan func(dest ...any) error) (*NewYear, error) {
	var n NewYear
	var createdAt sql.NullString

	if err := scan(
		&n.Algorithm,
		&n.Locale,
		&n.PersianYear,
		&n.FixedDate,
		&n.YearLength,
		&n.Steps,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if t := parseTimestamp(createdAt); t != nil {
		n.CreatedAt = *t
	}
	return &n, nil
}

// =============================================================================
// New Year Queries
// =============================================================================

// GetNewYear retrieves a cached new year.
// Returns ErrNotFound if the year has not been computed yet.
func (db *DB) GetNewYear(ctx context.Context, algorithm, locale string, year int) (*NewYear, error) {
	return getNewYear(ctx, db.DB, algorithm, locale, year)
}

// GetNewYear retrieves a cached new year within the transaction.
func (tx *Tx) GetNewYear(ctx context.Context, algorithm, locale string, year int) (*NewYear, error) {
	return getNewYear(ctx, tx.Tx, algorithm, locale, year)
}

func getNewYear(ctx context.Context, q querier, algorithm, locale string, year int) (*NewYear, error) {
	query := `SELECT ` + newYearColumns + `
		FROM new_years
		WHERE algorithm = ? AND locale = ? AND persian_year = ?`

	n, err := scanNewYear(q.QueryRowContext(ctx, query, algorithm, locale, year).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query new year %d: %w", year, err)
	}
	return n, nil
}

// UpsertNewYear inserts or replaces a cached new year.
func (db *DB) UpsertNewYear(ctx context.Context, n *NewYear) error {
	return upsertNewYear(ctx, db.DB, n)
}

// UpsertNewYear inserts or replaces a cached new year within the transaction.
func (tx *Tx) UpsertNewYear(ctx context.Context, n *NewYear) error {
	return upsertNewYear(ctx, tx.Tx, n)
}

func upsertNewYear(ctx context.Context, q querier, n *NewYear) error {
	query := `
		INSERT INTO new_years (algorithm, locale, persian_year, fixed_date, year_length, steps)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (algorithm, locale, persian_year) DO UPDATE SET
			fixed_date = excluded.fixed_date,
			year_length = excluded.year_length,
			steps = excluded.steps,
			created_at = datetime('now')
	`

	_, err := q.ExecContext(ctx, query,
		n.Algorithm,
		n.Locale,
		n.PersianYear,
		n.FixedDate,
		n.YearLength,
		n.Steps,
	)
	if err != nil {
		return fmt.Errorf("upsert new year %d: %w", n.PersianYear, err)
	}
	return nil
}

// ListNewYears returns cached new years matching f, ordered by
// algorithm, locale and year. Returns an empty slice if none match.
func (db *DB) ListNewYears(ctx context.Context, f NewYearFilter) ([]NewYear, error) {
	where, args := whereFilter(f)
	query := `SELECT ` + newYearColumns + ` FROM new_years` + where +
		` ORDER BY algorithm, locale, persian_year`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query new years: %w", err)
	}
	defer rows.Close()

	years := []NewYear{}
	for rows.Next() {
		n, err := scanNewYear(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan new year: %w", err)
		}
		years = append(years, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate new years: %w", err)
	}

	return years, nil
}

// DeleteNewYears removes cached new years matching f and returns the
// number of rows removed.
func (db *DB) DeleteNewYears(ctx context.Context, f NewYearFilter) (int64, error) {
	where, args := whereFilter(f)

	result, err := db.ExecContext(ctx, `DELETE FROM new_years`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete new years: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	db.logger.Info("cache cleared", "rows", n)
	return n, nil
}

// CountNewYears returns the number of cached new years matching f.
func (db *DB) CountNewYears(ctx context.Context, f NewYearFilter) (int, error) {
	where, args := whereFilter(f)

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM new_years`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count new years: %w", err)
	}
	return count, nil
}

// GetCacheStats summarizes the cache per (algorithm, locale).
func (db *DB) GetCacheStats(ctx context.Context) ([]CacheStats, error) {
	query := `
		SELECT
			algorithm, locale,
			COUNT(*),
			MIN(persian_year), MAX(persian_year),
			MAX(steps)
		FROM new_years
		GROUP BY algorithm, locale
		ORDER BY algorithm, locale
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query cache stats: %w", err)
	}
	defer rows.Close()

	stats := []CacheStats{}
	for rows.Next() {
		var s CacheStats
		if err := rows.Scan(&s.Algorithm, &s.Locale, &s.Count, &s.MinYear, &s.MaxYear, &s.MaxSteps); err != nil {
			return nil, fmt.Errorf("scan cache stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache stats: %w", err)
	}

	return stats, nil
}

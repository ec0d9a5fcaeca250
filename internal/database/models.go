// Package database provides the SQLite cache of computed Persian new years.
package database

import (
	"time"
)

// NewYear is one cached new-year computation. Records are keyed by
// (Algorithm, Locale, PersianYear); FixedDate is the RD day number of
// Farvardin 1.
type NewYear struct {
	Algorithm   string    `json:"algorithm"`
	Locale      string    `json:"locale"`
	PersianYear int       `json:"persian_year"`
	FixedDate   int64     `json:"fixed_date"`
	YearLength  int       `json:"year_length"` // 365 or 366
	Steps       int       `json:"steps"`       // solver steps; 0 for closed-form algorithms
	CreatedAt   time.Time `json:"created_at"`
}

// IsLeap reports whether the cached year has 366 days.
func (n NewYear) IsLeap() bool {
	return n.YearLength == 366
}

// NewYearFilter narrows list and delete queries. Empty strings and zero
// years match everything.
type NewYearFilter struct {
	Algorithm string
	Locale    string
	FromYear  int
	ToYear    int
}

// CacheStats summarizes the cache for one (algorithm, locale) pair.
type CacheStats struct {
	Algorithm string `json:"algorithm"`
	Locale    string `json:"locale"`
	Count     int    `json:"count"`
	MinYear   int    `json:"min_year"`
	MaxYear   int    `json:"max_year"`
	MaxSteps  int    `json:"max_steps"`
}

// CacheExport is the JSON document produced by a cache export and accepted
// by a cache import.
type CacheExport struct {
	Metadata ExportMetadata `json:"metadata"`
	NewYears []NewYear      `json:"new_years"`
}

// ExportMetadata describes an export.
type ExportMetadata struct {
	GeneratedAt string `json:"generated_at"`
	Source      string `json:"source,omitempty"`
	Count       int    `json:"count"`
}

// Package calendar wraps a Persian algorithm with a persistent new-year
// cache and exposes multi-calendar conversions.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/database"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// Store is the cache backend for computed new years.
// This allows us to use either *database.DB or *database.Tx.
type Store interface {
	GetNewYear(ctx context.Context, algorithm, locale string, year int) (*database.NewYear, error)
	UpsertNewYear(ctx context.Context, n *database.NewYear) error
}

// Recorder receives converter events. It is implemented by the metrics package.
type Recorder interface {
	ObserveSolverSteps(algorithm string, steps int)
	ObserveCacheLookup(algorithm string, hit bool)
}

// Converter converts between fixed dates and Persian dates using a single
// algorithm and locale. New years are memoized in the Store; every result
// is identical to calling the algorithm directly.
type Converter struct {
	alg      persian.Algorithm
	loc      calendrica.Location
	locale   string
	store    Store
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Converter) { c.recorder = r }
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// NewConverter creates a converter. store may be nil to disable caching.
func NewConverter(alg persian.Algorithm, loc calendrica.Location, store Store, opts ...Option) *Converter {
	c := &Converter{
		alg:    alg,
		loc:    loc,
		locale: LocaleKey(loc),
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Algorithm returns the underlying Persian algorithm.
func (c *Converter) Algorithm() persian.Algorithm { return c.alg }

// Location returns the observation point used for astronomical queries.
func (c *Converter) Location() calendrica.Location { return c.loc }

// Locale returns the cache key of the converter's location.
func (c *Converter) Locale() string { return c.locale }

// =============================================================================
// New years
// =============================================================================

// NewYear returns the fixed date of Farvardin 1 of the Persian year.
func (c *Converter) NewYear(ctx context.Context, year int) (calendrica.FixedDate, error) {
	if year == 0 {
		return 0, fmt.Errorf("%w: year 0 does not exist", persian.ErrInvalidDate)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if c.store != nil {
		cached, err := c.store.GetNewYear(ctx, c.alg.Name(), c.locale, year)
		switch {
		case err == nil:
			c.recordLookup(true)
			return calendrica.FixedDate(cached.FixedDate), nil
		case database.IsNotFound(err):
			c.recordLookup(false)
		default:
			c.logger.Warn("new year cache read failed",
				slog.Int("year", year),
				slog.String("error", err.Error()),
			)
		}
	}

	day, steps := c.computeNewYear(year)

	if c.store != nil {
		record := &database.NewYear{
			Algorithm:   c.alg.Name(),
			Locale:      c.locale,
			PersianYear: year,
			FixedDate:   int64(day),
			YearLength:  persian.YearLength(c.alg, year),
			Steps:       steps,
		}
		if err := c.store.UpsertNewYear(ctx, record); err != nil {
			c.logger.Warn("new year cache write failed",
				slog.Int("year", year),
				slog.String("error", err.Error()),
			)
		}
	}

	return day, nil
}

func (c *Converter) computeNewYear(year int) (calendrica.FixedDate, int) {
	if s, ok := c.alg.(persian.NewYearSearcher); ok {
		day, steps := s.NewYear(year)
		if c.recorder != nil {
			c.recorder.ObserveSolverSteps(c.alg.Name(), steps)
		}
		return day, steps
	}
	return c.alg.FixedFromPersian(calendrica.Date{Year: year, Month: 1, Day: 1}), 0
}

func (c *Converter) recordLookup(hit bool) {
	if c.recorder != nil {
		c.recorder.ObserveCacheLookup(c.alg.Name(), hit)
	}
}

// Nowruz returns the Persian new year that falls in the Gregorian year.
func (c *Converter) Nowruz(ctx context.Context, gregorianYear int) (calendrica.FixedDate, int, error) {
	year := gregorianYear - calendrica.GregorianYearFromFixed(calendrica.PersianEpoch) + 1
	if year <= 0 {
		year-- // no year zero
	}
	day, err := c.NewYear(ctx, year)
	return day, year, err
}

// =============================================================================
// Conversions
// =============================================================================

// ToPersian converts a fixed date to a Persian date.
func (c *Converter) ToPersian(ctx context.Context, date calendrica.FixedDate) (calendrica.Date, error) {
	year := estimateYear(date)

	start, err := c.NewYear(ctx, year)
	if err != nil {
		return calendrica.Date{}, err
	}
	for date < start {
		year = persian.AddYears(year, -1)
		if start, err = c.NewYear(ctx, year); err != nil {
			return calendrica.Date{}, err
		}
	}
	for {
		next, err := c.NewYear(ctx, persian.AddYears(year, 1))
		if err != nil {
			return calendrica.Date{}, err
		}
		if date < next {
			break
		}
		year, start = persian.AddYears(year, 1), next
	}

	month, day := persian.MonthDay(int(date-start) + 1)
	return calendrica.Date{Year: year, Month: month, Day: day}, nil
}

// estimateYear guesses the Persian year containing date from the mean
// tropical year; ToPersian corrects it against the actual new years.
func estimateYear(date calendrica.FixedDate) int {
	y := int(math.Floor(float64(date-calendrica.PersianEpoch)/calendrica.MeanTropicalYear)) + 1
	if y <= 0 {
		y-- // no year zero
	}
	return y
}

// FromPersian converts a Persian date to a fixed date. The date is not
// validated; out-of-range fields extrapolate the way the algorithm does.
func (c *Converter) FromPersian(ctx context.Context, d calendrica.Date) (calendrica.FixedDate, error) {
	start, err := c.NewYear(ctx, d.Year)
	if err != nil {
		return 0, err
	}
	return start - 1 + calendrica.FixedDate(persian.DayOfYear(d.Month, d.Day)), nil
}

// =============================================================================
// Years
// =============================================================================

// YearInfo describes one Persian year.
type YearInfo struct {
	Year             int                  `json:"year"`
	Era              string               `json:"era"`
	YearOfEra        int                  `json:"year_of_era"`
	Algorithm        string               `json:"algorithm"`
	Locale           string               `json:"locale"`
	NewYear          calendrica.FixedDate `json:"new_year"`
	NewYearGregorian calendrica.Date      `json:"new_year_gregorian"`
	Length           int                  `json:"length"`
	Leap             bool                 `json:"leap"`
	MonthLengths     []int                `json:"month_lengths"`
}

// YearInfo returns the new year, length and month lengths of a Persian year.
func (c *Converter) YearInfo(ctx context.Context, year int) (*YearInfo, error) {
	start, err := c.NewYear(ctx, year)
	if err != nil {
		return nil, err
	}
	next, err := c.NewYear(ctx, persian.AddYears(year, 1))
	if err != nil {
		return nil, err
	}

	length := int(next - start)
	months := make([]int, 12)
	for m := 1; m <= 11; m++ {
		months[m-1] = persian.MonthLength(c.alg, year, m)
	}
	months[11] = length - persian.DayOfYear(12, 0)

	era, yearOfEra := persian.Era(year)
	return &YearInfo{
		Year:             year,
		Era:              era,
		YearOfEra:        yearOfEra,
		Algorithm:        c.alg.Name(),
		Locale:           c.locale,
		NewYear:          start,
		NewYearGregorian: calendrica.GregorianFromFixed(start),
		Length:           length,
		Leap:             length == 366,
		MonthLengths:     months,
	}, nil
}

// LeapYears returns the leap years in [from, to], skipping year zero.
func (c *Converter) LeapYears(ctx context.Context, from, to int) ([]int, error) {
	leaps := []int{}
	if from > to {
		return leaps, nil
	}

	year := from
	if year == 0 {
		year = 1
	}
	start, err := c.NewYear(ctx, year)
	if err != nil {
		return nil, err
	}

	for ; year <= to; year = persian.AddYears(year, 1) {
		next, err := c.NewYear(ctx, persian.AddYears(year, 1))
		if err != nil {
			return nil, err
		}
		if next-start == 366 {
			leaps = append(leaps, year)
		}
		start = next
	}
	return leaps, nil
}

// Warm computes and caches the new years of every year in [from, to] plus
// the following year, so that lengths in the range are fully cached. It
// returns the number of years visited.
func (c *Converter) Warm(ctx context.Context, from, to int) (int, error) {
	if from > to {
		return 0, nil
	}

	count := 0
	last := persian.AddYears(to, 1)
	for year := from; ; year = persian.AddYears(year, 1) {
		if year == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return count, fmt.Errorf("warm interrupted at year %d: %w", year, err)
		}
		if _, err := c.NewYear(ctx, year); err != nil {
			return count, err
		}
		count++
		if year == last {
			break
		}
	}

	c.logger.Info("cache warmed",
		slog.String("algorithm", c.alg.Name()),
		slog.String("locale", c.locale),
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Int("years", count),
	)
	return count, nil
}

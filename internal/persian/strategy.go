// Package persian provides the Persian (Jalali) calendar algorithms behind a
// common interface, together with calendar-field helpers built on top of it.
package persian

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zapponejosh/persiancal/internal/calendrica"
)

// Algorithm names accepted by New.
const (
	NameAstronomical = "astronomical"
	NameArithmetic   = "arithmetic"
)

var (
	// ErrUnknownAlgorithm is returned by New for an unrecognized name.
	ErrUnknownAlgorithm = errors.New("unknown persian algorithm")
	// ErrInvalidDate is returned by Validate for out-of-range fields.
	ErrInvalidDate = errors.New("invalid persian date")
)

// Algorithm converts between fixed dates and Persian dates.
type Algorithm interface {
	Name() string
	FixedFromPersian(d calendrica.Date) calendrica.FixedDate
	PersianFromFixed(date calendrica.FixedDate) calendrica.Date
	LeapYear(year int) bool
}

// NewYearSearcher is implemented by algorithms that locate the new year by
// search and can report how many steps the search took.
type NewYearSearcher interface {
	NewYear(year int) (calendrica.FixedDate, int)
}

// New returns the algorithm registered under name. The locale is used only
// by the astronomical algorithm.
func New(name string, loc calendrica.Location) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameAstronomical:
		return Astronomical{Locale: loc}, nil
	case NameArithmetic:
		return Arithmetic{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Names lists the available algorithm names.
func Names() []string {
	return []string{NameAstronomical, NameArithmetic}
}

// =============================================================================
// Astronomical
// =============================================================================

// Astronomical is the observational calendar: the year starts on the first
// day whose true noon at Locale follows the vernal equinox.
type Astronomical struct {
	Locale calendrica.Location
}

func (Astronomical) Name() string { return NameAstronomical }

func (a Astronomical) FixedFromPersian(d calendrica.Date) calendrica.FixedDate {
	return calendrica.FixedFromPersian(d, a.Locale)
}

func (a Astronomical) PersianFromFixed(date calendrica.FixedDate) calendrica.Date {
	return calendrica.PersianFromFixed(date, a.Locale)
}

func (a Astronomical) LeapYear(year int) bool {
	return calendrica.PersianLeapYear(year, a.Locale)
}

// NewYear returns the fixed date of Farvardin 1 of year and the number of
// forward steps the equinox search needed.
func (a Astronomical) NewYear(year int) (calendrica.FixedDate, int) {
	seed := a.FixedFromPersian(calendrica.Date{Year: year, Month: 7, Day: 1})
	return calendrica.PersianNewYearSearch(seed, a.Locale)
}

// =============================================================================
// Arithmetic
// =============================================================================

// Arithmetic is the 2820-year cycle calendar (Birashk). It agrees with the
// astronomical calendar for most of the modern era but not everywhere;
// 1403 is common and 1404 leap here, the reverse of the astronomical rule.
type Arithmetic struct{}

const (
	arithCycleYears = 2820
	arithCycleDays  = 1029983
)

func (Arithmetic) Name() string { return NameArithmetic }

// arithEpochYear returns the year within the 2820-year cycle and the
// number of whole cycles preceding it. Year 0 does not exist.
func arithEpochYear(year int) (epYear int64, cycles int64) {
	base := int64(year) - 474
	if year < 0 {
		base = int64(year) - 473
	}
	return 474 + floorMod(base, arithCycleYears), floorDiv(base, arithCycleYears)
}

func (Arithmetic) FixedFromPersian(d calendrica.Date) calendrica.FixedDate {
	epYear, cycles := arithEpochYear(d.Year)
	fixed := int64(calendrica.PersianEpoch) - 1 +
		arithCycleDays*cycles +
		365*(epYear-1) +
		floorDiv(682*epYear-110, 2816) +
		int64(DayOfYear(d.Month, d.Day))
	return calendrica.FixedDate(fixed)
}

func (a Arithmetic) PersianFromFixed(date calendrica.FixedDate) calendrica.Date {
	d0 := int64(date - a.FixedFromPersian(calendrica.Date{Year: 475, Month: 1, Day: 1}))
	cycles := floorDiv(d0, arithCycleDays)
	d1 := floorMod(d0, arithCycleDays)

	var yearInCycle int64
	if d1 == arithCycleDays-1 {
		yearInCycle = arithCycleYears
	} else {
		yearInCycle = floorDiv(2816*d1+1031337, 1028522)
	}

	year := int(474 + arithCycleYears*cycles + yearInCycle)
	if year <= 0 {
		year-- // no year zero
	}

	dayOfYear := int(date-a.FixedFromPersian(calendrica.Date{Year: year, Month: 1, Day: 1})) + 1
	month, day := MonthDay(dayOfYear)

	return calendrica.Date{Year: year, Month: month, Day: day}
}

func (Arithmetic) LeapYear(year int) bool {
	epYear, _ := arithEpochYear(year)
	return floorMod((epYear+38)*682, 2816) < 682
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - b*floorDiv(a, b)
}

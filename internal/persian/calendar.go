package persian

import (
	"fmt"

	"github.com/zapponejosh/persiancal/internal/calendrica"
)

// Eras of the Persian calendar.
const (
	EraAH = "AH" // anno Hegirae, years 1 and later
	EraBH = "BH" // before the Hijra
)

// MonthLength returns the number of days in month of year, or 0 if month
// is out of range. Months 1-6 have 31 days, 7-11 have 30, and Esfand has
// 30 in a leap year and 29 otherwise.
func MonthLength(alg Algorithm, year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if alg.LeapYear(year) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// YearLength returns 366 for a leap year and 365 otherwise.
func YearLength(alg Algorithm, year int) int {
	if alg.LeapYear(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based ordinal of (month, day) within its year.
func DayOfYear(month, day int) int {
	if month <= 7 {
		return 31*(month-1) + day
	}
	return 30*(month-1) + 6 + day
}

// MonthDay is the inverse of DayOfYear.
func MonthDay(dayOfYear int) (month, day int) {
	if dayOfYear <= 186 {
		month = (dayOfYear + 30) / 31
		return month, dayOfYear - 31*(month-1)
	}
	month = (dayOfYear - 6 + 29) / 30
	return month, dayOfYear - 30*(month-1) - 6
}

// AddYears moves year by n, skipping year zero.
func AddYears(year, n int) int {
	// Map to a zero-based count where 0 is year 1 and -1 is year -1.
	k := year - 1
	if year < 0 {
		k = year
	}
	k += n
	if k >= 0 {
		return k + 1
	}
	return k
}

// AddMonths adds n months (negative to subtract) to d. The year carries
// across Esfand/Farvardin and the day is pinned to the target month's length.
func AddMonths(alg Algorithm, d calendrica.Date, n int) calendrica.Date {
	idx := d.Month - 1 + n
	years := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		years--
	}

	year := AddYears(d.Year, years)
	day := min(d.Day, MonthLength(alg, year, month+1))
	return calendrica.Date{Year: year, Month: month + 1, Day: day}
}

// Era returns the era of year and the positive year within that era.
func Era(year int) (string, int) {
	if year > 0 {
		return EraAH, year
	}
	return EraBH, -year
}

// Validate reports whether d names an existing day under alg.
func Validate(alg Algorithm, d calendrica.Date) error {
	if d.Year == 0 {
		return fmt.Errorf("%w: year 0 does not exist", ErrInvalidDate)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidDate, d.Month)
	}
	if n := MonthLength(alg, d.Year, d.Month); d.Day < 1 || d.Day > n {
		return fmt.Errorf("%w: day %d out of range 1-%d for %d-%02d", ErrInvalidDate, d.Day, n, d.Year, d.Month)
	}
	return nil
}

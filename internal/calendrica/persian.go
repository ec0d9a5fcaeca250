package calendrica

import "math"

// PersianNewYearSearch returns the fixed date of the astronomical Persian
// new year (Nowruz) on or before date, as observed at loc, together with
// the number of days the search stepped forward from its initial estimate.
//
// The estimate lands within a couple of days of the equinox, so steps is
// small; callers watch it to catch regressions in the solar model.
func PersianNewYearSearch(date FixedDate, loc Location) (FixedDate, int) {
	approx := EstimatePriorSolarLongitude(Spring, Midday(date, loc))
	day := FixedDate(math.Floor(float64(approx))) - 1

	steps := 0
	for SolarLongitude(Midday(day, loc)) > Spring+2 {
		day++
		steps++
	}
	return day, steps
}

// PersianNewYearOnOrBefore returns the fixed date of Nowruz on or before date at loc.
func PersianNewYearOnOrBefore(date FixedDate, loc Location) FixedDate {
	day, _ := PersianNewYearSearch(date, loc)
	return day
}

// persianMonthOffset is the number of days in the months preceding month.
// Months 1-6 have 31 days, 7-11 have 30 days.
func persianMonthOffset(month int) int64 {
	m := int64(month)
	if m <= 7 {
		return 31 * (m - 1)
	}
	return 30*(m-1) + 6
}

// persianNewYearSeed is a date in autumn of the given Persian year; the
// new year on or before it is that year's Nowruz.
func persianNewYearSeed(year int) FixedDate {
	y := year - 1
	if year <= 0 {
		y = year // no year zero
	}
	return PersianEpoch + 180 + FixedDate(math.Floor(MeanTropicalYear*float64(y)))
}

// FixedFromPersian returns the fixed date of an astronomical Persian date at loc.
func FixedFromPersian(d Date, loc Location) FixedDate {
	newYear := PersianNewYearOnOrBefore(persianNewYearSeed(d.Year), loc)
	return newYear - 1 + FixedDate(persianMonthOffset(d.Month)) + FixedDate(d.Day)
}

// PersianFromFixed converts a fixed date to an astronomical Persian date at loc.
func PersianFromFixed(date FixedDate, loc Location) Date {
	newYear := PersianNewYearOnOrBefore(date, loc)
	y := int(math.Floor(float64(newYear-PersianEpoch)/MeanTropicalYear + 1 + 0.5))
	year := y
	if y <= 0 {
		year = y - 1 // no year zero
	}

	dayOfYear := int64(date-FixedFromPersian(Date{Year: year, Month: 1, Day: 1}, loc)) + 1
	var month int
	if dayOfYear <= 186 {
		month = int(math.Ceil(float64(dayOfYear) / 31))
	} else {
		month = int(math.Ceil(float64(dayOfYear-6) / 30))
	}
	day := int(date-FixedFromPersian(Date{Year: year, Month: month, Day: 1}, loc)) + 1

	return Date{Year: year, Month: month, Day: day}
}

// PersianLeapYear reports whether the astronomical Persian year has 366 days at loc.
func PersianLeapYear(year int, loc Location) bool {
	next := year + 1
	if next == 0 {
		next = 1
	}
	thisNowruz := FixedFromPersian(Date{Year: year, Month: 1, Day: 1}, loc)
	nextNowruz := FixedFromPersian(Date{Year: next, Month: 1, Day: 1}, loc)
	return nextNowruz-thisNowruz == 366
}

// Nowruz returns the fixed date of the Persian new year that falls in
// the given Gregorian year.
func Nowruz(gregorianYear int, loc Location) FixedDate {
	persianYear := gregorianYear - GregorianYearFromFixed(PersianEpoch) + 1
	if persianYear <= 0 {
		persianYear-- // no year zero
	}
	return FixedFromPersian(Date{Year: persianYear, Month: 1, Day: 1}, loc)
}

package calendrica

// GregorianLeapYear reports whether year is a leap year in the proleptic
// Gregorian calendar. Years use astronomical numbering (year 0 = 1 BCE).
func GregorianLeapYear(year int) bool {
	y := int64(year)
	if floorMod(y, 4) != 0 {
		return false
	}
	switch floorMod(y, 400) {
	case 100, 200, 300:
		return false
	}
	return true
}

// FixedFromGregorian returns the fixed date of a Gregorian date.
func FixedFromGregorian(d Date) FixedDate {
	year := int64(d.Year)
	month := int64(d.Month)

	fixed := int64(GregorianEpoch) - 1 + // days before start of calendar
		365*(year-1) + // ordinary days since epoch
		floorDiv(year-1, 4) - // julian leap days since epoch
		floorDiv(year-1, 100) + // minus century years
		floorDiv(year-1, 400) + // plus years divisible by 400
		floorDiv(367*month-362, 12) // prior months assuming a 30-day February

	if month > 2 {
		if GregorianLeapYear(d.Year) {
			fixed--
		} else {
			fixed -= 2
		}
	}

	return FixedDate(fixed + int64(d.Day))
}

// GregorianYearFromFixed returns the Gregorian year containing date.
func GregorianYearFromFixed(date FixedDate) int {
	d0 := int64(date - GregorianEpoch)
	n400 := floorDiv(d0, 146097)
	d1 := floorMod(d0, 146097)
	n100 := floorDiv(d1, 36524)
	d2 := floorMod(d1, 36524)
	n4 := floorDiv(d2, 1461)
	d3 := floorMod(d2, 1461)
	n1 := floorDiv(d3, 365)

	year := 400*n400 + 100*n100 + 4*n4 + n1
	if n100 == 4 || n1 == 4 {
		// Day 366 of a leap year.
		return int(year)
	}
	return int(year + 1)
}

// GregorianNewYear returns the fixed date of January 1 of year.
func GregorianNewYear(year int) FixedDate {
	return FixedFromGregorian(Date{Year: year, Month: 1, Day: 1})
}

// GregorianFromFixed converts a fixed date to a Gregorian date.
func GregorianFromFixed(date FixedDate) Date {
	year := GregorianYearFromFixed(date)
	priorDays := int64(date - GregorianNewYear(year))

	var correction int64
	switch {
	case date < FixedFromGregorian(Date{Year: year, Month: 3, Day: 1}):
		correction = 0
	case GregorianLeapYear(year):
		correction = 1
	default:
		correction = 2
	}

	month := int(floorDiv(12*(priorDays+correction)+373, 367))
	day := int(date-FixedFromGregorian(Date{Year: year, Month: month, Day: 1})) + 1

	return Date{Year: year, Month: month, Day: day}
}

// GregorianDateDifference returns the number of days from a to b.
func GregorianDateDifference(a, b Date) int64 {
	return int64(FixedFromGregorian(b) - FixedFromGregorian(a))
}

// DayOfWeekFromFixed returns the day of week, 0 for Sunday through 6 for Saturday.
func DayOfWeekFromFixed(date FixedDate) int {
	return int(floorMod(int64(date), 7))
}

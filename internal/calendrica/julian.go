package calendrica

// JulianLeapYear reports whether year is a leap year in the Julian calendar.
// There is no year 0, so the leap years before the epoch are -1, -5, -9, ...
func JulianLeapYear(year int) bool {
	want := int64(0)
	if year <= 0 {
		want = 3
	}
	return floorMod(int64(year), 4) == want
}

// FixedFromJulian returns the fixed date of a Julian date.
func FixedFromJulian(d Date) FixedDate {
	y := int64(d.Year)
	if y < 0 {
		y++ // no year zero
	}
	month := int64(d.Month)

	fixed := int64(JulianEpoch) - 1 +
		365*(y-1) +
		floorDiv(y-1, 4) +
		floorDiv(367*month-362, 12)

	if month > 2 {
		if JulianLeapYear(d.Year) {
			fixed--
		} else {
			fixed -= 2
		}
	}

	return FixedDate(fixed + int64(d.Day))
}

// JulianFromFixed converts a fixed date to a Julian date.
func JulianFromFixed(date FixedDate) Date {
	approx := floorDiv(4*int64(date-JulianEpoch)+1464, 1461)
	year := int(approx)
	if approx <= 0 {
		year-- // no year zero
	}

	priorDays := int64(date - FixedFromJulian(Date{Year: year, Month: 1, Day: 1}))

	var correction int64
	switch {
	case date < FixedFromJulian(Date{Year: year, Month: 3, Day: 1}):
		correction = 0
	case JulianLeapYear(year):
		correction = 1
	default:
		correction = 2
	}

	month := int(floorDiv(12*(priorDays+correction)+373, 367))
	day := int(date-FixedFromJulian(Date{Year: year, Month: month, Day: 1})) + 1

	return Date{Year: year, Month: month, Day: day}
}

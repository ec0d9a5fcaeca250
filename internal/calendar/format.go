package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zapponejosh/persiancal/internal/calendrica"
)

var (
	// ErrInvalidFormat is returned when a date or locale string cannot be parsed.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidDate is returned when a parsed Gregorian or Julian date does not exist.
	ErrInvalidDate = errors.New("invalid date")
)

// datePattern matches numeric Y-M-D with an optional sign on the year.
var datePattern = regexp.MustCompile(`^([+-]?\d{1,7})-(\d{1,2})-(\d{1,2})$`)

// ParseDate parses "YYYY-MM-DD" into a date triple. The year may be signed
// ("-0622-10-10") and is not limited to four digits. Only the shape of the
// string is checked here; calendar validity depends on the calendar.
func ParseDate(s string) (calendrica.Date, error) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return calendrica.Date{}, fmt.Errorf("%w: date %q, want YYYY-MM-DD", ErrInvalidFormat, s)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return calendrica.Date{}, fmt.Errorf("%w: date %q out of range", ErrInvalidFormat, s)
	}

	return calendrica.Date{Year: year, Month: month, Day: day}, nil
}

// FormatDate formats a date as YYYY-MM-DD, keeping the sign of negative years.
func FormatDate(d calendrica.Date) string {
	if d.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ValidateGregorian reports whether d is a real proleptic Gregorian date.
// Year 0 is allowed (astronomical numbering).
func ValidateGregorian(d calendrica.Date) error {
	if calendrica.GregorianFromFixed(calendrica.FixedFromGregorian(d)) != d {
		return fmt.Errorf("%w: %s is not a Gregorian date", ErrInvalidDate, FormatDate(d))
	}
	return nil
}

// ValidateJulian reports whether d is a real Julian date. There is no year 0.
func ValidateJulian(d calendrica.Date) error {
	if d.Year == 0 {
		return fmt.Errorf("%w: the Julian calendar has no year 0", ErrInvalidDate)
	}
	if calendrica.JulianFromFixed(calendrica.FixedFromJulian(d)) != d {
		return fmt.Errorf("%w: %s is not a Julian date", ErrInvalidDate, FormatDate(d))
	}
	return nil
}

// =============================================================================
// Locales
// =============================================================================

// Named locales accepted by ParseLocale.
var namedLocales = map[string]calendrica.Location{
	"iran":   calendrica.Iran,
	"tehran": calendrica.Tehran,
}

// ParseLocale parses a locale name ("iran", "tehran") or a coordinate list
// "lat,long[,elevation,zone]".
func ParseLocale(s string) (calendrica.Location, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if loc, ok := namedLocales[key]; ok {
		return loc, nil
	}

	parts := strings.Split(key, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return calendrica.Location{}, fmt.Errorf("%w: locale %q, want iran, tehran or lat,long[,elevation,zone]", ErrInvalidFormat, s)
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return calendrica.Location{}, fmt.Errorf("%w: locale %q: %v", ErrInvalidFormat, s, err)
		}
		values[i] = v
	}

	loc := calendrica.Location{Latitude: values[0], Longitude: values[1]}
	if len(values) == 4 {
		loc.Elevation = values[2]
		loc.Zone = values[3]
	}

	if loc.Latitude < -90 || loc.Latitude > 90 {
		return calendrica.Location{}, fmt.Errorf("%w: latitude %v out of range", ErrInvalidFormat, loc.Latitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return calendrica.Location{}, fmt.Errorf("%w: longitude %v out of range", ErrInvalidFormat, loc.Longitude)
	}
	if loc.Zone < -12 || loc.Zone > 14 {
		return calendrica.Location{}, fmt.Errorf("%w: zone %v out of range", ErrInvalidFormat, loc.Zone)
	}

	return loc, nil
}

// LocaleKey identifies a location in the cache. Only the coordinates that
// affect the equinox computation take part.
func LocaleKey(loc calendrica.Location) string {
	return strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
}

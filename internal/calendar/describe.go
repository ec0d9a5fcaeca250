package calendar

import (
	"context"
	"math"

	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(weekday int) string {
	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	return days[weekday]
}

// PersianDay is a Persian date with its derived fields.
type PersianDay struct {
	calendrica.Date
	Era       string `json:"era"`
	YearOfEra int    `json:"year_of_era"`
	DayOfYear int    `json:"day_of_year"`
	Leap      bool   `json:"leap"`
}

// CalendarDay is a Gregorian or Julian date with its leap flag.
type CalendarDay struct {
	calendrica.Date
	Leap bool `json:"leap"`
}

// Description is one day expressed in every supported calendar.
type Description struct {
	Fixed     calendrica.FixedDate `json:"fixed"`
	Weekday   int                  `json:"weekday"` // 0=Sunday through 6=Saturday
	DayName   string               `json:"day_name"`
	Gregorian CalendarDay          `json:"gregorian"`
	Julian    CalendarDay          `json:"julian"`
	Persian   PersianDay           `json:"persian"`
	Algorithm string               `json:"algorithm"`
	Locale    string               `json:"locale"`
}

// Describe converts a fixed date into every calendar.
func (c *Converter) Describe(ctx context.Context, date calendrica.FixedDate) (*Description, error) {
	p, err := c.ToPersian(ctx, date)
	if err != nil {
		return nil, err
	}
	start, err := c.NewYear(ctx, p.Year)
	if err != nil {
		return nil, err
	}
	next, err := c.NewYear(ctx, persian.AddYears(p.Year, 1))
	if err != nil {
		return nil, err
	}

	g := calendrica.GregorianFromFixed(date)
	j := calendrica.JulianFromFixed(date)
	era, yearOfEra := persian.Era(p.Year)
	weekday := calendrica.DayOfWeekFromFixed(date)

	return &Description{
		Fixed:     date,
		Weekday:   weekday,
		DayName:   DayName(weekday),
		Gregorian: CalendarDay{Date: g, Leap: calendrica.GregorianLeapYear(g.Year)},
		Julian:    CalendarDay{Date: j, Leap: calendrica.JulianLeapYear(j.Year)},
		Persian: PersianDay{
			Date:      p,
			Era:       era,
			YearOfEra: yearOfEra,
			DayOfYear: int(date-start) + 1,
			Leap:      next-start == 366,
		},
		Algorithm: c.alg.Name(),
		Locale:    c.locale,
	}, nil
}

// Astro holds the astronomical quantities behind the calendar at one moment.
type Astro struct {
	Moment              calendrica.Moment   `json:"moment"`
	SolarLongitude      float64             `json:"solar_longitude"`
	Nutation            float64             `json:"nutation"`
	Aberration          float64             `json:"aberration"`
	Obliquity           float64             `json:"obliquity"`
	EquationOfTime      float64             `json:"equation_of_time"`
	EphemerisCorrection float64             `json:"ephemeris_correction"`
	EphemerisModel      string              `json:"ephemeris_model"`
	JulianCenturies     float64             `json:"julian_centuries"`
	Midday              calendrica.Moment   `json:"midday"`
	PriorEquinox        calendrica.Moment   `json:"prior_equinox"`
	Location            calendrica.Location `json:"location"`
}

// AstroAt evaluates the solar model at tee. Midday is true noon at loc on
// the day containing tee; PriorEquinox estimates the last vernal equinox.
func AstroAt(tee calendrica.Moment, loc calendrica.Location) Astro {
	date := calendrica.FixedDate(math.Floor(float64(tee)))
	return Astro{
		Moment:              tee,
		SolarLongitude:      calendrica.SolarLongitude(tee),
		Nutation:            calendrica.Nutation(tee),
		Aberration:          calendrica.Aberration(tee),
		Obliquity:           calendrica.Obliquity(tee),
		EquationOfTime:      calendrica.EquationOfTime(tee),
		EphemerisCorrection: calendrica.EphemerisCorrection(tee),
		EphemerisModel:      calendrica.EphemerisModelAt(tee).Name,
		JulianCenturies:     calendrica.JulianCenturies(tee),
		Midday:              calendrica.Midday(date, loc),
		PriorEquinox:        calendrica.EstimatePriorSolarLongitude(calendrica.Spring, tee),
		Location:            loc,
	}
}

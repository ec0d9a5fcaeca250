package calendrica

import "fmt"

// FixedDate is a count of whole days; day 1 is January 1, year 1 (proleptic Gregorian).
type FixedDate int64

// Moment is a fixed date plus a fraction of a day.
type Moment float64

// Date is a (year, month, day) triple. The same shape is used for
// Gregorian, Julian and Persian dates; the calendar is implied by the
// function that produced or consumes it.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the date as numeric Y-MM-DD. Negative years keep their sign.
func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Location is a geographic position used by time-of-day conversions.
// Only Longitude participates in the equinox computation.
type Location struct {
	Latitude  float64 `json:"latitude"`  // degrees, north positive
	Longitude float64 `json:"longitude"` // degrees, east positive
	Elevation float64 `json:"elevation"` // meters
	Zone      float64 `json:"zone"`      // hours from UTC
}

// Reference locations for the Persian calendar.
var (
	Tehran = Location{Latitude: 35.68, Longitude: 51.42, Elevation: 1100, Zone: 3.5}
	Iran   = Location{Latitude: 35.5, Longitude: 52.5, Elevation: 0, Zone: 3.5}
)

// Calendar constants.
const (
	GregorianEpoch FixedDate = 1
	JulianEpoch    FixedDate = -1 // Gregorian 0000-12-30
	PersianEpoch   FixedDate = 226896

	// J2000 is noon, January 1, 2000 (Gregorian).
	J2000 Moment = 730120.5

	// MeanTropicalYear is the mean length of the tropical year in days.
	MeanTropicalYear = 365.242189

	// Spring is the solar longitude of the vernal equinox in degrees.
	Spring = 0.0
)

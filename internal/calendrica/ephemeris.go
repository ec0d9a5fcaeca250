package calendrica

import "math"

const secondsPerDay = 86400.0

// EphemerisModel is one year range of the ΔT (dynamical minus universal
// time) model. From and To are inclusive Gregorian years.
type EphemerisModel struct {
	Name     string
	From, To int
	eval     func(year int) float64
}

// Covers reports whether the model applies to year.
func (m EphemerisModel) Covers(year int) bool {
	return year >= m.From && year <= m.To
}

// Correction evaluates the model for year and returns ΔT as a fraction of a day.
func (m EphemerisModel) Correction(year int) float64 {
	return m.eval(year)
}

// polyModel builds a model that evaluates coeffs at basis(year) and
// divides by divisor (secondsPerDay for polynomials expressed in seconds).
func polyModel(name string, from, to int, basis func(int) float64, coeffs []float64, divisor float64) EphemerisModel {
	return EphemerisModel{
		Name: name,
		From: from,
		To:   to,
		eval: func(year int) float64 {
			return Poly(basis(year), coeffs) / divisor
		},
	}
}

func yearsSince(origin float64) func(int) float64 {
	return func(year int) float64 { return float64(year) - origin }
}

func centuriesSince(origin float64) func(int) float64 {
	return func(year int) float64 { return (float64(year) - origin) / 100 }
}

// centuriesFrom1900 is the number of Julian centuries from 1900-01-01 to July 1 of year.
func centuriesFrom1900(year int) float64 {
	return float64(GregorianDateDifference(
		Date{Year: 1900, Month: 1, Day: 1},
		Date{Year: year, Month: 7, Day: 1},
	)) / 36525.0
}

// ephemerisModels is evaluated top to bottom; the first model covering
// the year wins. The function is discontinuous at the range boundaries.
var ephemerisModels = []EphemerisModel{
	{
		Name: "2051-2150",
		From: 2051,
		To:   2150,
		eval: func(year int) float64 {
			y := float64(year)
			return (-20 + 32*math.Pow((y-1820)/100, 2) + 0.5628*(2150-y)) / secondsPerDay
		},
	},
	polyModel("2006-2050", 2006, 2050, yearsSince(2000),
		[]float64{62.92, 0.32217, 0.005589}, secondsPerDay),
	polyModel("1987-2005", 1987, 2005, yearsSince(2000),
		[]float64{63.86, 0.3345, -0.060374, 0.0017275, 0.000651814, 0.00002373599}, secondsPerDay),
	polyModel("1900-1986", 1900, 1986, centuriesFrom1900,
		[]float64{-0.00002, 0.000297, 0.025184, -0.181133, 0.553040, -0.861938, 0.677066, -0.212591}, 1),
	polyModel("1800-1899", 1800, 1899, centuriesFrom1900,
		[]float64{-0.000009, 0.003844, 0.083563, 0.865736, 4.867575, 15.845535, 31.332267,
			38.291999, 28.316289, 11.636204, 2.043794}, 1),
	polyModel("1700-1799", 1700, 1799, yearsSince(1700),
		[]float64{8.118780842, -0.005092142, 0.003336121, -0.0000266484}, secondsPerDay),
	polyModel("1600-1699", 1600, 1699, yearsSince(1600),
		[]float64{120, -0.9808, -0.01532, 0.000140272128}, secondsPerDay),
	polyModel("500-1599", 500, 1599, centuriesSince(1000),
		[]float64{1574.2, -556.01, 71.23472, 0.319781, -0.8503463, -0.005050998, 0.0083572073}, secondsPerDay),
	polyModel("-499-499", -499, 499, centuriesSince(0),
		[]float64{10583.6, -1014.41, 33.78311, -5.952053, -0.1798452, 0.022174192, 0.0090316521}, secondsPerDay),
}

// ephemerisFallback covers every year outside the table.
var ephemerisFallback = polyModel("fallback", math.MinInt, math.MaxInt, centuriesSince(1820),
	[]float64{-20, 0, 32}, secondsPerDay)

// EphemerisModels returns a copy of the ordered ΔT model table, followed by the fallback.
func EphemerisModels() []EphemerisModel {
	models := make([]EphemerisModel, 0, len(ephemerisModels)+1)
	models = append(models, ephemerisModels...)
	return append(models, ephemerisFallback)
}

// ephemerisModelFor returns the model used for a Gregorian year.
func ephemerisModelFor(year int) EphemerisModel {
	for _, m := range ephemerisModels {
		if m.Covers(year) {
			return m
		}
	}
	return ephemerisFallback
}

// EphemerisModelAt returns the ΔT model in effect at tee.
func EphemerisModelAt(tee Moment) EphemerisModel {
	return ephemerisModelFor(GregorianYearFromFixed(FixedDate(math.Floor(float64(tee)))))
}

// EphemerisCorrection returns dynamical time minus universal time at
// tee, as a fraction of a day.
//
// Years 1600-1986 follow Meeus, "Astronomical Algorithms" (1991); other
// years use the NASA eclipse polynomials.
func EphemerisCorrection(tee Moment) float64 {
	year := GregorianYearFromFixed(FixedDate(math.Floor(float64(tee))))
	return ephemerisModelFor(year).Correction(year)
}

// DynamicalFromUniversal converts a universal-time moment to dynamical time.
func DynamicalFromUniversal(tee Moment) Moment {
	return tee + Moment(EphemerisCorrection(tee))
}

// UniversalFromDynamical converts a dynamical-time moment to universal time.
func UniversalFromDynamical(tee Moment) Moment {
	return tee - Moment(EphemerisCorrection(tee))
}

// JulianCenturies returns the number of Julian centuries from J2000 to
// the dynamical time of tee.
func JulianCenturies(tee Moment) float64 {
	return float64(DynamicalFromUniversal(tee)-J2000) / 36525
}

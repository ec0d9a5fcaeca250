package calendrica

import "math"

// Obliquity returns the obliquity of the ecliptic at tee, in degrees.
func Obliquity(tee Moment) float64 {
	c := JulianCenturies(tee)
	return Angle(23, 26, 21.448) + Poly(c, []float64{
		0,
		Angle(0, 0, -46.8150),
		Angle(0, 0, -0.00059),
		Angle(0, 0, 0.001813),
	})
}

// EquationOfTime returns apparent minus mean solar time at tee, as a
// fraction of a day. The magnitude is clamped to 12 hours.
//
// Adapted from Meeus, "Astronomical Algorithms", 2nd edn., 1998, p. 185.
func EquationOfTime(tee Moment) float64 {
	c := JulianCenturies(tee)
	lambda := Poly(c, []float64{280.46645, 36000.76983, 0.0003032})
	anomaly := Poly(c, []float64{357.52910, 35999.05030, -0.0001559, -0.00000048})
	eccentricity := Poly(c, []float64{0.016708617, -0.000042037, -0.0000001236})
	varepsilon := Obliquity(tee)
	y := math.Pow(TanDegrees(varepsilon/2), 2)

	equation := (1.0 / 2 / math.Pi) *
		(y*SinDegrees(2*lambda) -
			2*eccentricity*SinDegrees(anomaly) +
			4*eccentricity*y*SinDegrees(anomaly)*CosDegrees(2*lambda) -
			0.5*y*y*SinDegrees(4*lambda) -
			1.25*eccentricity*eccentricity*SinDegrees(2*anomaly))

	return Sign(equation) * math.Min(math.Abs(equation), Hr(12))
}

// Periodic terms of the solar longitude series: amplitude, rate
// (degrees per Julian century) and phase (degrees).
var (
	solarCoefficients = []float64{
		403406, 195207, 119433, 112392, 3891, 2819, 1721,
		660, 350, 334, 314, 268, 242, 234, 158, 132, 129, 114,
		99, 93, 86, 78, 72, 68, 64, 46, 38, 37, 32, 29, 28, 27, 27,
		25, 24, 21, 21, 20, 18, 17, 14, 13, 13, 13, 12, 10, 10, 10,
		10,
	}
	solarMultipliers = []float64{
		0.9287892, 35999.1376958, 35999.4089666,
		35998.7287385, 71998.20261, 71998.4403,
		36000.35726, 71997.4812, 32964.4678,
		-19.4410, 445267.1117, 45036.8840, 3.1008,
		22518.4434, -19.9739, 65928.9345,
		9038.0293, 3034.7684, 33718.148, 3034.448,
		-2280.773, 29929.992, 31556.493, 149.588,
		9037.750, 107997.405, -4444.176, 151.771,
		67555.316, 31556.080, -4561.540,
		107996.706, 1221.655, 62894.167,
		31437.369, 14578.298, -31931.757,
		34777.243, 1221.999, 62894.511,
		-4442.039, 107997.909, 119.066, 16859.071,
		-4.578, 26895.292, -39.127, 12297.536,
		90073.778,
	}
	solarAddends = []float64{
		270.54861, 340.19128, 63.91854, 331.26220,
		317.843, 86.631, 240.052, 310.26, 247.23,
		260.87, 297.82, 343.14, 166.79, 81.53,
		3.50, 132.75, 182.95, 162.03, 29.8,
		266.4, 249.2, 157.6, 257.8, 185.1, 69.9,
		8.0, 197.1, 250.4, 65.3, 162.7, 341.5,
		291.6, 98.5, 146.7, 110.0, 5.2, 342.6,
		230.9, 256.1, 45.3, 242.9, 115.2, 151.8,
		285.3, 53.3, 126.6, 205.7, 85.9,
		146.1,
	}
)

// SolarLongitude returns the apparent longitude of the sun at tee, in
// degrees within [0, 360).
//
// Adapted from Bretagnon and Simon, "Planetary Programs and Tables from
// -4000 to +2800", Willmann-Bell, 1986.
func SolarLongitude(tee Moment) float64 {
	c := JulianCenturies(tee)

	var sum float64
	for i, x := range solarCoefficients {
		sum += x * SinDegrees(solarAddends[i]+solarMultipliers[i]*c)
	}
	lambda := 282.7771834 + 36000.76953744*c + 0.000005729577951308232*sum

	return Mod3(lambda+Aberration(tee)+Nutation(tee), 0, 360)
}

// Nutation returns the longitudinal nutation at tee, in degrees.
func Nutation(tee Moment) float64 {
	c := JulianCenturies(tee)
	capA := Poly(c, []float64{124.90, -1934.134, 0.002063})
	capB := Poly(c, []float64{201.11, 72001.5377, 0.00057})
	return -0.004778*SinDegrees(capA) - 0.0003667*SinDegrees(capB)
}

// Aberration returns the aberration of the sun's longitude at tee, in degrees.
func Aberration(tee Moment) float64 {
	c := JulianCenturies(tee)
	return 0.0000974*CosDegrees(177.63+35999.01848*c) - 0.005575
}

// EstimatePriorSolarLongitude approximates the last moment at or before
// tee when the solar longitude was lambda degrees.
func EstimatePriorSolarLongitude(lambda float64, tee Moment) Moment {
	rate := MeanTropicalYear / 360 // days per degree
	tau := tee - Moment(rate*Mod3(SolarLongitude(tee)-lambda, 0, 360))
	capDelta := Mod3(SolarLongitude(tau)-lambda, -180, 180)
	return min(tee, tau-Moment(rate*capDelta))
}

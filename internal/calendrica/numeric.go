// Package calendrica provides calendrical and astronomical calculations
// for the Gregorian, Julian and astronomical Persian calendars.
//
// All functions are pure. Dates are expressed as fixed dates (RD), where
// day 1 is January 1 of year 1 in the proleptic Gregorian calendar, and
// moments are fixed dates with a fractional time of day.
package calendrica

import "math"

// Mod3 shifts x into the half-open range [a, b).
// If a == b the range is degenerate and x is returned unchanged.
func Mod3(x, a, b float64) float64 {
	if a == b {
		return x
	}
	r := a + math.Mod(x-a, b-a)
	if r < a {
		r += b - a
	}
	return r
}

// Poly evaluates coeffs[0] + coeffs[1]*x + coeffs[2]*x^2 + ...
// using Horner's method. An empty coefficient list evaluates to 0.
func Poly(x float64, coeffs []float64) float64 {
	sum := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		sum = sum*x + coeffs[i]
	}
	return sum
}

// Sign returns -1, 0 or +1 according to the sign of y.
func Sign(y float64) float64 {
	switch {
	case y < 0:
		return -1
	case y > 0:
		return 1
	default:
		return 0
	}
}

// Hr converts hours to a fraction of a day.
func Hr(x float64) float64 {
	return x / 24
}

// Angle converts degrees, arcminutes and arcseconds to decimal degrees.
func Angle(d, m, s float64) float64 {
	return d + (m+s/60)/60
}

// RadiansFromDegrees normalizes theta into [0, 360) and converts it to radians.
func RadiansFromDegrees(theta float64) float64 {
	return Mod3(theta, 0, 360) * math.Pi / 180
}

// SinDegrees returns the sine of an angle in degrees.
func SinDegrees(theta float64) float64 {
	return math.Sin(RadiansFromDegrees(theta))
}

// CosDegrees returns the cosine of an angle in degrees.
func CosDegrees(theta float64) float64 {
	return math.Cos(RadiansFromDegrees(theta))
}

// TanDegrees returns the tangent of an angle in degrees.
func TanDegrees(theta float64) float64 {
	return math.Tan(RadiansFromDegrees(theta))
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the modulus matching floorDiv; the result has the sign of b.
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

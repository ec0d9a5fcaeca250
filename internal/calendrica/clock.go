package calendrica

// ZoneFromLongitude returns the offset of local mean time from universal
// time, as a fraction of a day, for a longitude in degrees.
func ZoneFromLongitude(phi float64) float64 {
	return phi / 360
}

// UniversalFromLocal converts local mean time at loc to universal time.
func UniversalFromLocal(teeEll Moment, loc Location) Moment {
	return teeEll - Moment(ZoneFromLongitude(loc.Longitude))
}

// LocalFromUniversal converts universal time to local mean time at loc.
func LocalFromUniversal(teeRomU Moment, loc Location) Moment {
	return teeRomU + Moment(ZoneFromLongitude(loc.Longitude))
}

// StandardFromUniversal converts universal time to the standard (zone) time of loc.
func StandardFromUniversal(teeRomU Moment, loc Location) Moment {
	return teeRomU + Moment(Hr(loc.Zone))
}

// UniversalFromStandard converts the standard (zone) time of loc to universal time.
func UniversalFromStandard(teeRomS Moment, loc Location) Moment {
	return teeRomS - Moment(Hr(loc.Zone))
}

// ApparentFromLocal converts local mean time to apparent (sundial) time.
func ApparentFromLocal(tee Moment, loc Location) Moment {
	return tee + Moment(EquationOfTime(UniversalFromLocal(tee, loc)))
}

// LocalFromApparent converts apparent (sundial) time at loc to local mean time.
func LocalFromApparent(tee Moment, loc Location) Moment {
	return tee - Moment(EquationOfTime(UniversalFromLocal(tee, loc)))
}

// ApparentFromUniversal converts universal time to apparent time at loc.
func ApparentFromUniversal(teeRomU Moment, loc Location) Moment {
	return ApparentFromLocal(LocalFromUniversal(teeRomU, loc), loc)
}

// UniversalFromApparent converts apparent time at loc to universal time.
func UniversalFromApparent(tee Moment, loc Location) Moment {
	return UniversalFromLocal(LocalFromApparent(tee, loc), loc)
}

// Midday returns the universal time of true (apparent) noon on date at loc.
func Midday(date FixedDate, loc Location) Moment {
	return UniversalFromApparent(Moment(date)+Moment(Hr(12)), loc)
}

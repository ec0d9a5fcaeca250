package calendrica

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneFromLongitude(t *testing.T) {
	assert.InDelta(t, 0.14283333333333334, ZoneFromLongitude(51.42), 1e-12)
	assert.InDelta(t, -0.5, ZoneFromLongitude(-180), 1e-12)
}

func TestLocalUniversal(t *testing.T) {
	assert.InDelta(t, 11.857166666666666, float64(UniversalFromLocal(12, Tehran)), 1e-9)
	assert.InDelta(t, 12.0, float64(LocalFromUniversal(UniversalFromLocal(12, Tehran), Tehran)), 1e-9)
}

func TestStandardUniversal(t *testing.T) {
	assert.InDelta(t, 12+3.5/24, float64(StandardFromUniversal(12, Tehran)), 1e-9)
	assert.InDelta(t, 12.0, float64(UniversalFromStandard(StandardFromUniversal(12, Iran), Iran)), 1e-9)
}

func TestApparentTime(t *testing.T) {
	assert.InDelta(t, 12.008904079634519, float64(LocalFromApparent(12, Tehran)), 1e-9)
	assert.InDelta(t, 11.866070746301185, float64(UniversalFromApparent(12, Tehran)), 1e-9)
}

func TestApparentRoundTrip(t *testing.T) {
	for _, loc := range []Location{Tehran, Iran, {Longitude: -122.4}} {
		for tee := Moment(-1000000); tee <= 1000000; tee += 77777.7 {
			back := UniversalFromApparent(ApparentFromUniversal(tee, loc), loc)
			assert.InDelta(t, float64(tee), float64(back), 1e-5, "tee %v at %v", tee, loc)

			local := LocalFromApparent(ApparentFromLocal(tee, loc), loc)
			assert.InDelta(t, float64(tee), float64(local), 1e-5)
		}
	}
}

func TestMidday(t *testing.T) {
	assert.InDelta(t, 1234567.3649561694, float64(Midday(1234567, Tehran)), 1e-6)

	tests := []struct {
		date FixedDate
		want float64
	}{
		{0, 0.35975105010920616},
		{-1000, -999.6448755018984},
		{-1, -0.6405737999741052},
		{1234567, 1234567.3619562502},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, float64(Midday(tt.date, Iran)), 1e-6, "Midday(%d)", tt.date)
	}

	assert.InDelta(t, 738965.3622589438, float64(Midday(738965, Tehran)), 1e-6)
}

package persian

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapponejosh/persiancal/internal/calendrica"
)

func TestMonthLength(t *testing.T) {
	alg := Astronomical{Locale: calendrica.Iran}

	for month := 1; month <= 6; month++ {
		assert.Equal(t, 31, MonthLength(alg, 1404, month))
	}
	for month := 7; month <= 11; month++ {
		assert.Equal(t, 30, MonthLength(alg, 1404, month))
	}
	assert.Equal(t, 30, MonthLength(alg, 1403, 12))
	assert.Equal(t, 29, MonthLength(alg, 1404, 12))
	assert.Equal(t, 30, MonthLength(Arithmetic{}, 1404, 12))

	assert.Equal(t, 0, MonthLength(alg, 1404, 0))
	assert.Equal(t, 0, MonthLength(alg, 1404, 13))
}

func TestYearLength(t *testing.T) {
	alg := Astronomical{Locale: calendrica.Iran}
	assert.Equal(t, 366, YearLength(alg, 1403))
	assert.Equal(t, 365, YearLength(alg, 1404))

	for year := 1395; year <= 1405; year++ {
		sum := 0
		for month := 1; month <= 12; month++ {
			sum += MonthLength(alg, year, month)
		}
		assert.Equal(t, YearLength(alg, year), sum, "year %d", year)
	}
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		month, day int
		want       int
	}{
		{1, 1, 1},
		{6, 31, 186},
		{7, 1, 187},
		{7, 30, 216},
		{8, 1, 217},
		{12, 29, 365},
		{12, 30, 366},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayOfYear(tt.month, tt.day), "DayOfYear(%d, %d)", tt.month, tt.day)

		month, day := MonthDay(tt.want)
		assert.Equal(t, tt.month, month, "MonthDay(%d) month", tt.want)
		assert.Equal(t, tt.day, day, "MonthDay(%d) day", tt.want)
	}
}

func TestMonthDay_Inverse(t *testing.T) {
	for n := 1; n <= 366; n++ {
		month, day := MonthDay(n)
		if got := DayOfYear(month, day); got != n {
			t.Errorf("DayOfYear(MonthDay(%d)) = %d", n, got)
		}
	}
}

func TestAddYears(t *testing.T) {
	tests := []struct {
		year, n int
		want    int
	}{
		{1403, 1, 1404},
		{1403, -1, 1402},
		{1, -1, -1},
		{-1, 1, 1},
		{2, -3, -2},
		{-2, 3, 2},
		{5, 0, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AddYears(tt.year, tt.n), "AddYears(%d, %d)", tt.year, tt.n)
	}
}

func TestAddMonths(t *testing.T) {
	alg := Astronomical{Locale: calendrica.Iran}

	tests := []struct {
		name string
		from calendrica.Date
		n    int
		want calendrica.Date
	}{
		{"same year", calendrica.Date{Year: 1403, Month: 1, Day: 15}, 3, calendrica.Date{Year: 1403, Month: 4, Day: 15}},
		{"carry forward", calendrica.Date{Year: 1403, Month: 11, Day: 5}, 2, calendrica.Date{Year: 1404, Month: 1, Day: 5}},
		{"carry backward", calendrica.Date{Year: 1404, Month: 2, Day: 5}, -3, calendrica.Date{Year: 1403, Month: 11, Day: 5}},
		{"whole years", calendrica.Date{Year: 1400, Month: 6, Day: 1}, -24, calendrica.Date{Year: 1398, Month: 6, Day: 1}},
		{"pin to 30", calendrica.Date{Year: 1403, Month: 6, Day: 31}, 1, calendrica.Date{Year: 1403, Month: 7, Day: 30}},
		{"pin leap esfand", calendrica.Date{Year: 1403, Month: 1, Day: 31}, 11, calendrica.Date{Year: 1403, Month: 12, Day: 30}},
		{"pin common esfand", calendrica.Date{Year: 1403, Month: 12, Day: 30}, 12, calendrica.Date{Year: 1404, Month: 12, Day: 29}},
		{"across year zero", calendrica.Date{Year: 1, Month: 2, Day: 10}, -2, calendrica.Date{Year: -1, Month: 12, Day: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(alg, tt.from, tt.n))
		})
	}
}

func TestEra(t *testing.T) {
	era, year := Era(1403)
	assert.Equal(t, EraAH, era)
	assert.Equal(t, 1403, year)

	era, year = Era(-5)
	assert.Equal(t, EraBH, era)
	assert.Equal(t, 5, year)
}

func TestValidate(t *testing.T) {
	alg := Astronomical{Locale: calendrica.Iran}

	valid := []calendrica.Date{
		{Year: 1403, Month: 12, Day: 30},
		{Year: 1404, Month: 12, Day: 29},
		{Year: -1, Month: 1, Day: 31},
	}
	for _, d := range valid {
		assert.NoError(t, Validate(alg, d), "date %v", d)
	}

	invalid := []calendrica.Date{
		{Year: 0, Month: 1, Day: 1},
		{Year: 1404, Month: 0, Day: 1},
		{Year: 1404, Month: 13, Day: 1},
		{Year: 1404, Month: 7, Day: 31},
		{Year: 1404, Month: 12, Day: 30},
		{Year: 1404, Month: 1, Day: 0},
	}
	for _, d := range invalid {
		err := Validate(alg, d)
		assert.True(t, errors.Is(err, ErrInvalidDate), "date %v: %v", d, err)
	}

	// The arithmetic calendar accepts 1404-12-30.
	assert.NoError(t, Validate(Arithmetic{}, calendrica.Date{Year: 1404, Month: 12, Day: 30}))
}

package scrape

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeText(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2 years 3 months", 27.0},
		{"6 months", 6.0},
		{"1 year", 12.0},
		{"1 Year 1 Month", 13.0},
		{"3 weeks", 0.69},
		{"10 days", 0.33},
	}
	for _, tc := range cases {
		got := ParseAgeText(tc.in)
		require.NotNil(t, got, "input %q", tc.in)
		assert.InDelta(t, tc.want, *got, 0.001, "input %q", tc.in)
	}
}

func TestParseAgeTextInvalid(t *testing.T) {
	for _, in := range []string{"", "unknown", "adult", "puppy"} {
		assert.Nil(t, ParseAgeText(in), "input %q", in)
	}
}

func TestAgeFromBirthday(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// 2025-04-01T12:00:00Z, 61 días antes de now
	got := AgeFromBirthday("1743508800", now)
	require.NotNil(t, got)
	assert.InDelta(t, 61/DaysPerMonth, *got, 0.01)

	// milisegundos: mismo instante, mismo resultado
	ms := AgeFromBirthday("1743508800000", now)
	require.NotNil(t, ms)
	assert.Equal(t, *got, *ms)
}

func TestAgeFromBirthdayRejects(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, AgeFromBirthday("", now))
	assert.Nil(t, AgeFromBirthday("not-a-number", now))
	assert.Nil(t, AgeFromBirthday("0", now))
	assert.Nil(t, AgeFromBirthday("-1200000", now))

	future := strconv.FormatInt(now.AddDate(1, 0, 0).Unix(), 10)
	assert.Nil(t, AgeFromBirthday(future, now))
}

func TestAgeFromAgeGroupPrefersUpperBound(t *testing.T) {
	from, to := 6.0, 1.0
	got := AgeFromAgeGroup(AgeGroup{
		AgeFrom:  &from,
		AgeTo:    &to,
		FromUnit: "months",
		ToUnit:   "years",
	})
	require.NotNil(t, got)
	assert.Equal(t, 12.0, *got)
}

func TestAgeFromAgeGroupFallsBackToLowerBound(t *testing.T) {
	from := 8.0
	got := AgeFromAgeGroup(AgeGroup{AgeFrom: &from, FromUnit: "weeks"})
	require.NotNil(t, got)
	assert.InDelta(t, 8*7/DaysPerMonth, *got, 0.01)

	assert.Nil(t, AgeFromAgeGroup(AgeGroup{}))

	zero := 0.0
	assert.Nil(t, AgeFromAgeGroup(AgeGroup{AgeTo: &zero, ToUnit: "months"}))
}

func TestAgeRawFromAgeGroup(t *testing.T) {
	assert.Equal(t, "Puppy under 1 year", AgeRawFromAgeGroup(AgeGroup{
		NameWithDuration: " Puppy  under 1 year ",
		Name:             "Puppy",
	}))
	assert.Equal(t, "Puppy under 1 year", AgeRawFromAgeGroup(AgeGroup{
		Name:     "Puppy",
		Duration: "under 1 year",
	}))
	assert.Equal(t, "Adult", AgeRawFromAgeGroup(AgeGroup{Name: "Adult"}))
	assert.Equal(t, "", AgeRawFromAgeGroup(AgeGroup{}))
}

func TestUnitToMonths(t *testing.T) {
	cases := []struct {
		value float64
		unit  string
		want  float64
	}{
		{30.4375, "days", 1.0},
		{1, "week", 7 / DaysPerMonth},
		{5, "Months", 5.0},
		{2, "years", 24.0},
	}
	for _, tc := range cases {
		got := UnitToMonths(tc.value, tc.unit)
		require.NotNil(t, got, "unit %q", tc.unit)
		assert.InDelta(t, tc.want, *got, 0.001, "unit %q", tc.unit)
	}

	assert.Nil(t, UnitToMonths(3, "fortnights"))
	assert.Nil(t, UnitToMonths(3, ""))
}

func TestFormatAgeMonths(t *testing.T) {
	mk := func(v float64) *float64 { return &v }

	assert.Equal(t, "1 year 3 months", FormatAgeMonths(mk(15)))
	assert.Equal(t, "2 years", FormatAgeMonths(mk(24)))
	assert.Equal(t, "1 month", FormatAgeMonths(mk(1.7)))
	assert.Equal(t, "0 months", FormatAgeMonths(mk(0.4)))
	assert.Equal(t, "", FormatAgeMonths(nil))
	assert.Equal(t, "", FormatAgeMonths(mk(-3)))
}

package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := Load(name)
	require.NoError(t, err)
	return loc
}

func TestValidTZ(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want bool
	}{
		{name: "toronto", tz: "America/Toronto", want: true},
		{name: "kolkata", tz: "Asia/Kolkata", want: true},
		{name: "utc", tz: "UTC", want: true},
		{name: "empty", tz: "", want: false},
		{name: "local", tz: "Local", want: false},
		{name: "garbage", tz: "Mars/Olympus_Mons", want: false},
		{name: "offset string", tz: "+05:30", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTZ(tt.tz))
		})
	}
}

func TestLoadIsCached(t *testing.T) {
	first := mustLoad(t, "Europe/Berlin")
	second := mustLoad(t, "Europe/Berlin")
	assert.Same(t, first, second)
}

func TestToInstant_Exact(t *testing.T) {
	toronto := mustLoad(t, "America/Toronto")

	got, res := Resolve(NewDate(2025, time.March, 3).At(9*60), toronto)

	assert.Equal(t, Exact, res)
	assert.True(t, got.Equal(time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)), got)
}

func TestToInstant_SpringForwardGap(t *testing.T) {
	toronto := mustLoad(t, "America/Toronto")

	// 2025-03-09 02:30 не существует в Торонто: 02:00 EST -> 03:00 EDT
	wall := NewDate(2025, time.March, 9).At(2*60 + 30)

	got, res := Resolve(wall, toronto)
	assert.Equal(t, Nonexistent, res)
	assert.True(t, got.Equal(time.Date(2025, time.March, 9, 7, 0, 0, 0, time.UTC)), got)
	assert.Equal(t, NewDate(2025, time.March, 9).At(3*60), ToWall(got, toronto))

	_, err := ToInstantStrict(wall, toronto)
	assert.ErrorIs(t, err, ErrNonexistentLocalTime)
}

func TestToInstant_FallBackOverlap(t *testing.T) {
	toronto := mustLoad(t, "America/Toronto")

	// 2025-11-02 01:30 встречается дважды: сначала EDT (-4), потом EST (-5)
	wall := NewDate(2025, time.November, 2).At(60 + 30)

	got, res := Resolve(wall, toronto)
	assert.Equal(t, Ambiguous, res)
	assert.True(t, got.Equal(time.Date(2025, time.November, 2, 5, 30, 0, 0, time.UTC)), got)

	_, err := ToInstantStrict(wall, toronto)
	assert.ErrorIs(t, err, ErrAmbiguousLocalTime)
}

func TestRoundTrip(t *testing.T) {
	zones := []string{"America/Toronto", "Asia/Kolkata", "Australia/Lord_Howe", "Europe/London", "UTC"}
	day := NewDate(2025, time.January, 1)

	for _, name := range zones {
		loc := mustLoad(t, name)
		for d := 0; d < 365; d += 7 {
			for minute := 0; minute < 24*60; minute += 45 {
				wall := day.AddDays(d).At(minute)
				instant, res := Resolve(wall, loc)
				if res != Exact {
					continue
				}
				require.Equal(t, wall, ToWall(instant, loc), "%s %s", name, wall)
			}
		}
	}
}

func TestEndOfDayWall(t *testing.T) {
	toronto := mustLoad(t, "America/Toronto")

	end := ToInstant(NewDate(2025, time.March, 3).At(24*60), toronto)
	next := ToInstant(NewDate(2025, time.March, 4).At(0), toronto)

	assert.True(t, end.Equal(next))
}

func TestDayBounds_DSTDays(t *testing.T) {
	toronto := mustLoad(t, "America/Toronto")

	tests := []struct {
		name string
		date Date
		want time.Duration
	}{
		{name: "regular", date: NewDate(2025, time.March, 3), want: 24 * time.Hour},
		{name: "spring forward", date: NewDate(2025, time.March, 9), want: 23 * time.Hour},
		{name: "fall back", date: NewDate(2025, time.November, 2), want: 25 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DayBounds(tt.date, toronto)
			assert.Equal(t, tt.want, end.Sub(start))
		})
	}
}

func TestOffsetHours(t *testing.T) {
	toronto := mustLoad(t, "America/Toronto")
	kolkata := mustLoad(t, "Asia/Kolkata")

	winter := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.InDelta(t, 10.5, OffsetHours(toronto, kolkata, winter), 1e-9)
	assert.InDelta(t, 9.5, OffsetHours(toronto, kolkata, summer), 1e-9)
	assert.InDelta(t, -9.5, OffsetHours(kolkata, toronto, summer), 1e-9)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2025-03-03")
	require.NoError(t, err)

	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2025-03-09", d.AddDays(6).String())
	assert.Equal(t, time.Sunday, d.AddDays(6).Weekday())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.Equal(t, NewDate(2025, time.February, 28), NewDate(2025, time.March, 0))

	_, err = ParseDate("03/03/2025")
	assert.Error(t, err)
}

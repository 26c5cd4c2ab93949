package datemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripAcrossZones(t *testing.T) {
	zones := []string{"UTC", "America/New_York", "America/Los_Angeles", "Asia/Tokyo", "Australia/Sydney", "Pacific/Kiritimati"}
	dates := []string{"2024-01-01", "2024-02-29", "2023-12-31", "2024-03-10", "2024-11-03"}

	for _, tz := range zones {
		for _, d := range dates {
			instant, err := ParseDateInZone(d, tz)
			require.NoError(t, err, "ParseDateInZone(%s, %s)", d, tz)
			assert.Equal(t, d, FormatDateInZone(instant, tz), "round trip %s in %s", d, tz)
		}
	}
}

func TestParseDateInZoneIsLocalMidnight(t *testing.T) {
	instant, err := ParseDateInZone("2024-06-15", "Asia/Tokyo")
	require.NoError(t, err)

	// Midnight in Tokyo is 15:00 UTC the previous day.
	want := time.Date(2024, 6, 14, 15, 0, 0, 0, time.UTC)
	assert.True(t, instant.Equal(want), "got %v, want %v", instant, want)
}

func TestFormatDateInZoneShiftsCalendarDate(t *testing.T) {
	instant := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01", FormatDateInZone(instant, "America/Los_Angeles"))

	instant = time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", FormatDateInZone(instant, "Asia/Tokyo"))
}

func TestFormatDateInZoneUnknownZoneFallsBack(t *testing.T) {
	instant := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.NotEmpty(t, FormatDateInZone(instant, "Not/AZone"),
		"unknown zone should fall back to the local zone, not fail")
}

func TestDiffDays(t *testing.T) {
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		end   time.Time
		tz    string
		want  int
	}{
		{"hundred days UTC", "2024-01-01", now, "UTC", 100},
		{"same date different time", "2024-04-10", now, "UTC", 0},
		{"start after end clamps", "2024-05-01", now, "UTC", 0},
		{"leap day crossing", "2024-02-28", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "UTC", 2},
		{"year boundary", "2023-12-31", time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), "UTC", 1},
		{"month boundary", "2024-01-31", time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC), "UTC", 1},
		// New York springs forward on 2024-03-10; the count is a
		// calendar-day count, not elapsed-hours/24.
		{"across DST transition", "2024-03-09", time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC), "America/New_York", 2},
		{"malformed start fails closed", "not-a-date", now, "UTC", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DiffDaysFromDate(tc.start, tc.end, tc.tz))
		})
	}
}

func TestDiffDaysZoneChangesTheAnswer(t *testing.T) {
	// 2024-04-11T02:00Z is still 2024-04-10 in Los Angeles.
	end := time.Date(2024, 4, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DiffDaysFromDate("2024-04-10", end, "UTC"))
	assert.Equal(t, 0, DiffDaysFromDate("2024-04-10", end, "America/Los_Angeles"))
}

func TestDiffDaysNeverNegative(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DiffDays(start, end, "UTC"))
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2024, 4, 10, 15, 4, 5, 0, time.UTC)
	want := time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC)
	assert.True(t, NextMidnight(now).Equal(want))

	// Exactly at midnight the next boundary is a full day away.
	now = time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	want = time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC)
	assert.True(t, NextMidnight(now).Equal(want))
}

package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soberPathAPI/internal/types/sobriety"
)

func strPtr(s string) *string { return &s }

func TestComputeDaysSoberStreakVsJourney(t *testing.T) {
	profile := &sobriety.Profile{
		SobrietyDate: strPtr("2024-01-01"),
		Timezone:     strPtr("UTC"),
	}
	slipUps := []sobriety.SlipUp{
		{SlipUpDate: "2024-03-01", RecoveryRestartDate: "2024-03-02"},
	}
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	result := ComputeDaysSober(profile, slipUps, now, "UTC")

	assert.Equal(t, 100, result.JourneyDays)
	assert.Equal(t, 39, result.CurrentStreakDays)
	assert.True(t, result.HasSlipUps)
	require.NotNil(t, result.StreakStartDate)
	assert.Equal(t, "2024-03-02", *result.StreakStartDate)
}

func TestComputeDaysSoberNoSlipUps(t *testing.T) {
	profile := &sobriety.Profile{
		SobrietyDate: strPtr("2024-01-01"),
		Timezone:     strPtr("America/New_York"),
	}
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	result := ComputeDaysSober(profile, nil, now, "UTC")

	assert.Equal(t, 100, result.CurrentStreakDays)
	assert.Equal(t, 100, result.JourneyDays)
	assert.False(t, result.HasSlipUps)
	require.NotNil(t, result.StreakStartDate)
	assert.Equal(t, "2024-01-01", *result.StreakStartDate, "streak starts at the sobriety date")
}

func TestComputeDaysSoberFutureDateClampsToZero(t *testing.T) {
	profile := &sobriety.Profile{
		SobrietyDate: strPtr("2030-01-01"),
		Timezone:     strPtr("UTC"),
	}
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	result := ComputeDaysSober(profile, nil, now, "UTC")

	assert.Equal(t, 0, result.CurrentStreakDays)
	assert.Equal(t, 0, result.JourneyDays)
}

func TestComputeDaysSoberNilProfile(t *testing.T) {
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	result := ComputeDaysSober(nil, nil, now, "UTC")

	assert.Equal(t, 0, result.CurrentStreakDays)
	assert.Equal(t, 0, result.JourneyDays)
	assert.Nil(t, result.StreakStartDate)
}

func TestComputeDaysSoberMalformedDate(t *testing.T) {
	profile := &sobriety.Profile{
		SobrietyDate: strPtr("garbage"),
		Timezone:     strPtr("UTC"),
	}
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	result := ComputeDaysSober(profile, nil, now, "UTC")

	assert.Equal(t, 0, result.CurrentStreakDays)
	assert.Equal(t, 0, result.JourneyDays)
}

func TestComputeDaysSoberProfileTimezoneWins(t *testing.T) {
	// 2024-04-11T02:00Z is already the 11th in UTC but still the 10th
	// in Los Angeles; the profile's zone decides.
	profile := &sobriety.Profile{
		SobrietyDate: strPtr("2024-04-10"),
		Timezone:     strPtr("America/Los_Angeles"),
	}
	now := time.Date(2024, 4, 11, 2, 0, 0, 0, time.UTC)

	result := ComputeDaysSober(profile, nil, now, "UTC")

	assert.Equal(t, 0, result.JourneyDays, "LA is still on the start date")
}

func TestMostRecentSlipUpIgnoresCallerOrder(t *testing.T) {
	slipUps := []sobriety.SlipUp{
		{SlipUpDate: "2024-02-01", RecoveryRestartDate: "2024-02-02"},
		{SlipUpDate: "2024-03-01", RecoveryRestartDate: "2024-03-02"},
		{SlipUpDate: "2024-01-15", RecoveryRestartDate: "2024-01-16"},
	}

	latest := MostRecentSlipUp(slipUps)
	require.NotNil(t, latest)
	assert.Equal(t, "2024-03-01", latest.SlipUpDate)

	assert.Nil(t, MostRecentSlipUp(nil), "empty list should yield nil")
}

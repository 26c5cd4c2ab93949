package tracker

import (
	"time"

	"soberPathAPI/internal/datemath"
	"soberPathAPI/internal/types/sobriety"
)

// MostRecentSlipUp selects the slip-up with the latest SlipUpDate.
// Callers usually supply a list already sorted descending and limited
// to one row, but that ordering is never trusted. Returns nil for an
// empty list.
func MostRecentSlipUp(slipUps []sobriety.SlipUp) *sobriety.SlipUp {
	var latest *sobriety.SlipUp
	for i := range slipUps {
		// YYYY-MM-DD strings compare correctly as text.
		if latest == nil || slipUps[i].SlipUpDate > latest.SlipUpDate {
			latest = &slipUps[i]
		}
	}
	return latest
}

// ComputeDaysSober derives the day counts for a profile and its slip-up
// history at a given instant. The profile's timezone wins over deviceTZ
// when set. Future or malformed dates clamp to 0 rather than going
// negative or failing.
func ComputeDaysSober(profile *sobriety.Profile, slipUps []sobriety.SlipUp, now time.Time, deviceTZ string) sobriety.DaysSoberResult {
	computationsTotal.Inc()

	tz := deviceTZ
	if profile != nil && profile.Timezone != nil && *profile.Timezone != "" {
		tz = *profile.Timezone
	}

	latest := MostRecentSlipUp(slipUps)

	var sobrietyDate *string
	if profile != nil {
		sobrietyDate = profile.SobrietyDate
	}

	streakStart := sobrietyDate
	if latest != nil {
		streakStart = &latest.RecoveryRestartDate
	}

	result := sobriety.DaysSoberResult{
		StreakStartDate:  streakStart,
		HasSlipUps:       latest != nil,
		MostRecentSlipUp: latest,
	}
	if streakStart != nil {
		result.CurrentStreakDays = datemath.DiffDaysFromDate(*streakStart, now, tz)
	}
	if sobrietyDate != nil {
		result.JourneyDays = datemath.DiffDaysFromDate(*sobrietyDate, now, tz)
	}
	return result
}

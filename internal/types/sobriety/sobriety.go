package sobriety

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the recovery settings that drive day counting. Calendar
// dates cross the API boundary as YYYY-MM-DD strings; the timezone is
// the user's preferred IANA identifier for day-boundary computation.
type Profile struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	SobrietyDate *string   `json:"sobriety_date" db:"sobriety_date"`
	Timezone     *string   `json:"timezone" db:"timezone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SlipUp is an immutable relapse record. It resets the current streak
// but never the overall journey.
type SlipUp struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	UserID              uuid.UUID `json:"user_id" db:"user_id"`
	SlipUpDate          string    `json:"slip_up_date" db:"slip_up_date"`
	RecoveryRestartDate string    `json:"recovery_restart_date" db:"recovery_restart_date"`
	Notes               *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// DaysSoberResult is a derived projection, recomputed on every fetch
// and every local-midnight tick. It is never persisted.
type DaysSoberResult struct {
	CurrentStreakDays int     `json:"current_streak_days"`
	JourneyDays       int     `json:"journey_days"`
	StreakStartDate   *string `json:"streak_start_date"`
	HasSlipUps        bool    `json:"has_slip_ups"`
	MostRecentSlipUp  *SlipUp `json:"most_recent_slip_up,omitempty"`
	Loading           bool    `json:"loading"`
	Error             string  `json:"error,omitempty"`
}

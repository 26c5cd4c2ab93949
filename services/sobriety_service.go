package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soberPathAPI/internal/datemath"
	"soberPathAPI/internal/milestone"
	"soberPathAPI/internal/tracker"
	"soberPathAPI/internal/types/sobriety"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("recovery profile not found")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimezone = errors.New("invalid IANA timezone identifier")
)

type SobrietyService struct {
	db *pgxpool.Pool
}

func NewSobrietyService(db *pgxpool.Pool) *SobrietyService {
	return &SobrietyService{db: db}
}

// DaysSoberResponse is what the days-sober endpoint returns: the derived
// counts plus the milestone badge for the current streak.
type DaysSoberResponse struct {
	sobriety.DaysSoberResult
	Milestone milestone.Milestone `json:"milestone"`
}

func (s *SobrietyService) resolveUserID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

func (s *SobrietyService) GetProfile(ctx context.Context, clerkID string) (*sobriety.Profile, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT user_id, sobriety_date, timezone, created_at, updated_at
	FROM recovery_profiles
	WHERE user_id = $1
	`

	profile := &sobriety.Profile{}
	var sobrietyDate *time.Time
	err = s.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&sobrietyDate,
		&profile.Timezone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get recovery profile: %w", err)
	}

	if sobrietyDate != nil {
		d := sobrietyDate.Format("2006-01-02")
		profile.SobrietyDate = &d
	}
	return profile, nil
}

func (s *SobrietyService) UpdateProfile(ctx context.Context, clerkID string, req *sobriety.UpdateProfileRequest) (*sobriety.Profile, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	var sobrietyDate *time.Time
	if req.SobrietyDate != nil {
		parsed, err := datemath.ParseDateInZone(*req.SobrietyDate, "UTC")
		if err != nil {
			return nil, ErrInvalidDate
		}
		sobrietyDate = &parsed
	}
	if req.Timezone != nil && *req.Timezone != "" {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, ErrInvalidTimezone
		}
	}

	query := `
	INSERT INTO recovery_profiles (user_id, sobriety_date, timezone, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (user_id) DO UPDATE SET
		sobriety_date = COALESCE(EXCLUDED.sobriety_date, recovery_profiles.sobriety_date),
		timezone = COALESCE(EXCLUDED.timezone, recovery_profiles.timezone),
		updated_at = NOW()
	RETURNING user_id, sobriety_date, timezone, created_at, updated_at
	`

	profile := &sobriety.Profile{}
	var storedDate *time.Time
	err = s.db.QueryRow(ctx, query, userID, sobrietyDate, req.Timezone).Scan(
		&profile.UserID,
		&storedDate,
		&profile.Timezone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update recovery profile: %w", err)
	}

	if storedDate != nil {
		d := storedDate.Format("2006-01-02")
		profile.SobrietyDate = &d
	}
	return profile, nil
}

func (s *SobrietyService) AddSlipUp(ctx context.Context, clerkID string, req *sobriety.CreateSlipUpRequest) (*sobriety.SlipUp, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	slipDate, err := datemath.ParseDateInZone(req.SlipUpDate, "UTC")
	if err != nil {
		return nil, ErrInvalidDate
	}
	restartDate, err := datemath.ParseDateInZone(req.RecoveryRestartDate, "UTC")
	if err != nil {
		return nil, ErrInvalidDate
	}

	query := `
	INSERT INTO slip_ups (id, user_id, slip_up_date, recovery_restart_date, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING id, user_id, slip_up_date, recovery_restart_date, notes, created_at
	`

	return s.scanSlipUp(s.db.QueryRow(ctx, query, uuid.New(), userID, slipDate, restartDate, req.Notes))
}

// GetSlipUpTimeline returns the full slip-up history, newest first,
// for the journey timeline view.
func (s *SobrietyService) GetSlipUpTimeline(ctx context.Context, clerkID string) ([]*sobriety.SlipUp, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, slip_up_date, recovery_restart_date, notes, created_at
	FROM slip_ups
	WHERE user_id = $1
	ORDER BY slip_up_date DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slip-up timeline: %w", err)
	}
	defer rows.Close()

	slipUps := []*sobriety.SlipUp{}
	for rows.Next() {
		slipUp, err := s.scanSlipUp(rows)
		if err != nil {
			return nil, err
		}
		slipUps = append(slipUps, slipUp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slip-up timeline: %w", err)
	}

	return slipUps, nil
}

// GetMostRecentSlipUp returns the latest slip-up by slip_up_date, or
// nil when the user has never recorded one.
func (s *SobrietyService) GetMostRecentSlipUp(ctx context.Context, clerkID string) (*sobriety.SlipUp, error) {
	userID, err := s.resolveUserID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT id, user_id, slip_up_date, recovery_restart_date, notes, created_at
	FROM slip_ups
	WHERE user_id = $1
	ORDER BY slip_up_date DESC
	LIMIT 1
	`

	slipUp, err := s.scanSlipUp(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return slipUp, nil
}

// GetDaysSober derives the day counts and milestone for targetClerkID,
// or for the caller when targetClerkID is empty. A missing profile is
// not an error; it yields zero counts.
func (s *SobrietyService) GetDaysSober(ctx context.Context, clerkID string, targetClerkID string) (*DaysSoberResponse, error) {
	if targetClerkID == "" {
		targetClerkID = clerkID
	}

	profile, err := s.FetchProfile(ctx, targetClerkID)
	if err != nil {
		return nil, err
	}
	slipUp, err := s.GetMostRecentSlipUp(ctx, targetClerkID)
	if err != nil {
		return nil, err
	}

	var slipUps []sobriety.SlipUp
	if slipUp != nil {
		slipUps = append(slipUps, *slipUp)
	}

	result := tracker.ComputeDaysSober(profile, slipUps, time.Now(), "")
	return &DaysSoberResponse{
		DaysSoberResult: result,
		Milestone:       milestone.ForDays(result.CurrentStreakDays),
	}, nil
}

// FetchProfile implements tracker.Source. A user without a recovery
// profile is reported as absent, not as an error.
func (s *SobrietyService) FetchProfile(ctx context.Context, userID string) (*sobriety.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	return profile, err
}

// FetchMostRecentSlipUp implements tracker.Source.
func (s *SobrietyService) FetchMostRecentSlipUp(ctx context.Context, userID string) (*sobriety.SlipUp, error) {
	return s.GetMostRecentSlipUp(ctx, userID)
}

func (s *SobrietyService) scanSlipUp(row pgx.Row) (*sobriety.SlipUp, error) {
	slipUp := &sobriety.SlipUp{}
	var slipDate, restartDate time.Time
	err := row.Scan(
		&slipUp.ID,
		&slipUp.UserID,
		&slipDate,
		&restartDate,
		&slipUp.Notes,
		&slipUp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan slip-up: %w", err)
	}
	slipUp.SlipUpDate = slipDate.Format("2006-01-02")
	slipUp.RecoveryRestartDate = restartDate.Format("2006-01-02")
	return slipUp, nil
}

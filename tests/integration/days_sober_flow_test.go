package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soberPathAPI/internal/types/sobriety"
	"soberPathAPI/services"
	"soberPathAPI/tests/helpers"
)

func strPtr(s string) *string { return &s }

func TestDaysSoberFullFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	svc := services.NewSobrietyService(pool)
	ctx := context.Background()

	clerkID := fmt.Sprintf("user_test_%s", uuid.New().String()[:8])
	helpers.SeedTestUser(t, pool, clerkID)

	// Dates are computed as UTC calendar dates and the profile pins the
	// UTC zone, so the expected counts do not depend on the host zone.
	today := time.Now().UTC()
	sobrietyDate := today.AddDate(0, 0, -100).Format("2006-01-02")

	t.Log("Step 1: User sets up the recovery profile")

	profile, err := svc.UpdateProfile(ctx, clerkID, &sobriety.UpdateProfileRequest{
		SobrietyDate: strPtr(sobrietyDate),
		Timezone:     strPtr("UTC"),
	})
	require.NoError(t, err)
	require.NotNil(t, profile.SobrietyDate)
	assert.Equal(t, sobrietyDate, *profile.SobrietyDate)

	t.Log("Step 2: No slip-ups yet, streak and journey agree")

	resp, err := svc.GetDaysSober(ctx, clerkID, "")
	require.NoError(t, err)
	assert.Equal(t, 100, resp.JourneyDays)
	assert.Equal(t, 100, resp.CurrentStreakDays)
	assert.False(t, resp.HasSlipUps)
	assert.Equal(t, "90 Days", resp.Milestone.Label)

	t.Log("Step 3: A slip-up 60 days ago resets the streak but not the journey")

	slipDate := today.AddDate(0, 0, -61).Format("2006-01-02")
	restartDate := today.AddDate(0, 0, -60).Format("2006-01-02")
	_, err = svc.AddSlipUp(ctx, clerkID, &sobriety.CreateSlipUpRequest{
		SlipUpDate:          slipDate,
		RecoveryRestartDate: restartDate,
		Notes:               strPtr("rough weekend"),
	})
	require.NoError(t, err)

	resp, err = svc.GetDaysSober(ctx, clerkID, "")
	require.NoError(t, err)
	assert.Equal(t, 60, resp.CurrentStreakDays)
	assert.Equal(t, 100, resp.JourneyDays, "journey ignores slip-ups")
	require.True(t, resp.HasSlipUps)
	require.NotNil(t, resp.MostRecentSlipUp)
	require.NotNil(t, resp.StreakStartDate)
	assert.Equal(t, restartDate, *resp.StreakStartDate)
	assert.Equal(t, "30 Days", resp.Milestone.Label)

	t.Log("Step 4: An older slip-up changes the timeline but not the current streak")

	olderSlip := today.AddDate(0, 0, -80).Format("2006-01-02")
	olderRestart := today.AddDate(0, 0, -79).Format("2006-01-02")
	_, err = svc.AddSlipUp(ctx, clerkID, &sobriety.CreateSlipUpRequest{
		SlipUpDate:          olderSlip,
		RecoveryRestartDate: olderRestart,
	})
	require.NoError(t, err)

	resp, err = svc.GetDaysSober(ctx, clerkID, "")
	require.NoError(t, err)
	assert.Equal(t, 60, resp.CurrentStreakDays, "older slip-up must not affect the streak")
	assert.Equal(t, slipDate, resp.MostRecentSlipUp.SlipUpDate)

	t.Log("Step 5: Timeline lists both slip-ups, newest first")

	timeline, err := svc.GetSlipUpTimeline(ctx, clerkID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, slipDate, timeline[0].SlipUpDate)
	assert.Equal(t, olderSlip, timeline[1].SlipUpDate)
}

func TestDaysSoberForUserWithoutProfile(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	svc := services.NewSobrietyService(pool)
	ctx := context.Background()

	clerkID := fmt.Sprintf("user_test_%s", uuid.New().String()[:8])
	helpers.SeedTestUser(t, pool, clerkID)

	resp, err := svc.GetDaysSober(ctx, clerkID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStreakDays)
	assert.Equal(t, 0, resp.JourneyDays)
	assert.Equal(t, "< 24 Hours", resp.Milestone.Label)
}

func TestUpdateProfileValidation(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	svc := services.NewSobrietyService(pool)
	ctx := context.Background()

	clerkID := fmt.Sprintf("user_test_%s", uuid.New().String()[:8])
	helpers.SeedTestUser(t, pool, clerkID)

	_, err := svc.UpdateProfile(ctx, clerkID, &sobriety.UpdateProfileRequest{
		SobrietyDate: strPtr("01/15/2024"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidDate)

	_, err = svc.UpdateProfile(ctx, clerkID, &sobriety.UpdateProfileRequest{
		Timezone: strPtr("Mars/OlympusMons"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidTimezone)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"soberPathAPI/internal/milestone"
	"soberPathAPI/internal/types/sobriety"
	"soberPathAPI/middleware"
	"soberPathAPI/services"
)

type SobrietyHandler struct {
	sobrietyService *services.SobrietyService
}

func NewSobrietyHandler(sobrietyService *services.SobrietyService) *SobrietyHandler {
	return &SobrietyHandler{
		sobrietyService: sobrietyService,
	}
}

// GetDaysSober returns the derived day counts and milestone for the
// caller, or for ?targetUserId= when viewing a sponsee/sponsor.
func (h *SobrietyHandler) GetDaysSober(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	targetUserID := r.URL.Query().Get("targetUserId")

	response, err := h.sobrietyService.GetDaysSober(ctx, clerkID, targetUserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to compute days sober")
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// GetMilestone returns the milestone badge. With ?days= it is a pure
// lookup; without it the caller's current streak is used.
func (h *SobrietyHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil || days < 0 {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'days' must be a nonnegative integer")
			return
		}
		respondWithJSON(w, http.StatusOK, milestone.ForDays(days))
		return
	}

	response, err := h.sobrietyService.GetDaysSober(ctx, clerkID, "")
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute milestone")
		return
	}

	respondWithJSON(w, http.StatusOK, response.Milestone)
}

func (h *SobrietyHandler) GetRecoveryProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.sobrietyService.GetProfile(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Recovery profile not set up yet")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get recovery profile")
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *SobrietyHandler) UpdateRecoveryProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req sobriety.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.sobrietyService.UpdateProfile(ctx, clerkID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) || errors.Is(err, services.ErrInvalidTimezone) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update recovery profile")
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *SobrietyHandler) AddSlipUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req sobriety.CreateSlipUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slipUp, err := h.sobrietyService.AddSlipUp(ctx, clerkID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to record slip-up")
		return
	}

	respondWithJSON(w, http.StatusCreated, slipUp)
}

func (h *SobrietyHandler) GetSlipUpTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	slipUps, err := h.sobrietyService.GetSlipUpTimeline(ctx, clerkID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get slip-up timeline")
		return
	}

	respondWithJSON(w, http.StatusOK, slipUps)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

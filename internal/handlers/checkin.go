package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CheckinHandler handles check-in HTTP requests
type CheckinHandler struct {
	checkinService *services.CheckinService
	profileService *services.ProfileService
	notifier       *services.NotificationService
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(
	checkinService *services.CheckinService,
	profileService *services.ProfileService,
	notifier *services.NotificationService,
) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
		profileService: profileService,
		notifier:       notifier,
	}
}

// CreateCheckinRequest represents the request body for creating a check-in
type CreateCheckinRequest struct {
	PhotoURL   string  `json:"photoUrl"`
	Location   *string `json:"location,omitempty"`
	DeviceInfo *string `json:"deviceInfo,omitempty"`
}

// Create handles POST /checkins
func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req CreateCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PhotoURL == "" {
		respondError(w, "photoUrl required", http.StatusBadRequest)
		return
	}

	checkin, err := h.checkinService.Create(ctx, identity.UserID, req.PhotoURL, req.Location, req.DeviceInfo)
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			respondError(w, "Already checked in within the last 10 minutes", http.StatusTooManyRequests)
			return
		}
		log.Error().Err(err).Str("user_id", identity.UserID).Msg("Failed to create checkin")
		respondError(w, "Failed to create checkin", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", identity.UserID).
		Str("checkin_id", checkin.ID).
		Msg("Checkin created")

	ownerName := "User"
	if profile, err := h.profileService.Ensure(ctx, identity.UserID, identity.Email); err == nil {
		ownerName = profile.Username
		if profile.DisplayName != nil && *profile.DisplayName != "" {
			ownerName = *profile.DisplayName
		}
	} else {
		log.Warn().Err(err).Str("user_id", identity.UserID).Msg("Failed to resolve owner name for notification")
	}
	go h.notifier.CheckinCreated(context.Background(), checkin, ownerName)

	respondJSON(w, map[string]interface{}{"ok": true}, http.StatusCreated)
}

// List handles GET /checkins
func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil {
			page = parsed
		}
	}

	checkins, err := h.checkinService.ListOwn(ctx, userID, page)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list checkins")
		respondError(w, "Failed to list checkins", http.StatusInternalServerError)
		return
	}

	respondJSON(w, checkins, http.StatusOK)
}

// Get handles GET /checkins/{checkin_id}
func (h *CheckinHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	checkinID := chi.URLParam(r, "checkin_id")

	checkin, err := h.checkinService.GetOwn(ctx, userID, checkinID)
	if err != nil {
		if errors.Is(err, services.ErrCheckinNotFound) {
			respondError(w, "Checkin not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Str("checkin_id", checkinID).Msg("Failed to get checkin")
		respondError(w, "Failed to get checkin", http.StatusInternalServerError)
		return
	}

	respondJSON(w, checkin, http.StatusOK)
}

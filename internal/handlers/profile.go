package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get handles GET /profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	profile, err := h.profileService.Ensure(ctx, identity.UserID, identity.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", identity.UserID).Msg("Failed to get profile")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"profile": profile}, http.StatusOK)
}

// Sync handles POST /profile/sync
func (h *ProfileHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	if err := h.profileService.Sync(ctx, identity.UserID, identity.Email); err != nil {
		log.Error().Err(err).Str("user_id", identity.UserID).Msg("Failed to sync profile")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// UpdateUsernameRequest represents the request body for a username change
type UpdateUsernameRequest struct {
	Username string `json:"username"`
}

// UpdateUsername handles PUT /profile/username
func (h *ProfileHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req UpdateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username, err := h.profileService.UpdateUsername(ctx, identity.UserID, identity.Email, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUsername):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrUsernameTaken):
			respondError(w, "Username is already taken", http.StatusConflict)
		case errors.Is(err, services.ErrProfileNotFound):
			respondError(w, "Profile not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Str("user_id", identity.UserID).Msg("Failed to update username")
			respondError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	log.Info().
		Str("user_id", identity.UserID).
		Str("username", username).
		Msg("Username updated")

	respondJSON(w, map[string]interface{}{"success": true, "username": username}, http.StatusOK)
}

// UpdateBackgroundRequest represents the request body for a background change
type UpdateBackgroundRequest struct {
	BackgroundURL string `json:"backgroundUrl"`
}

// UpdateBackground handles PUT /profile/background
func (h *ProfileHandler) UpdateBackground(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req UpdateBackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.BackgroundURL == "" {
		respondError(w, "backgroundUrl is required", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdateBackground(ctx, identity.UserID, identity.Email, req.BackgroundURL); err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondError(w, "Profile not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", identity.UserID).Msg("Failed to update background")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// UpdatePushTokenRequest represents the request body for a push token change.
// A null token clears the registration.
type UpdatePushTokenRequest struct {
	PushToken *string `json:"pushToken"`
}

// UpdatePushToken handles PUT /profile/push-token
func (h *ProfileHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req UpdatePushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdatePushToken(ctx, identity.UserID, identity.Email, req.PushToken); err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondError(w, "Profile not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", identity.UserID).Msg("Failed to update push token")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// Search handles GET /users/search
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	users, err := h.profileService.Search(ctx, userID, r.URL.Query().Get("username"))
	if err != nil {
		if errors.Is(err, services.ErrSearchTooShort) {
			respondError(w, "Username query must be at least 2 characters", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to search users")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"users": users}, http.StatusOK)
}

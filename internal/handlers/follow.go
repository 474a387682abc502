package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FollowHandler handles follow-graph HTTP requests
type FollowHandler struct {
	followService *services.FollowService
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// FollowRequest represents the request body for following a user
type FollowRequest struct {
	FollowingID string `json:"followingId"`
}

// Follow handles POST /follows
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FollowingID == "" {
		respondError(w, "followingId is required", http.StatusBadRequest)
		return
	}

	if err := h.followService.Follow(ctx, userID, req.FollowingID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			respondError(w, "Cannot follow yourself", http.StatusBadRequest)
		case errors.Is(err, services.ErrAlreadyFollowing):
			respondError(w, "Already following this user", http.StatusConflict)
		default:
			log.Error().
				Err(err).
				Str("user_id", userID).
				Str("following_id", req.FollowingID).
				Msg("Failed to follow")
			respondError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("following_id", req.FollowingID).
		Msg("Follow created")

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// Unfollow handles DELETE /follows
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	followingID := r.URL.Query().Get("followingId")
	if followingID == "" {
		respondError(w, "followingId is required", http.StatusBadRequest)
		return
	}

	if err := h.followService.Unfollow(ctx, userID, followingID); err != nil {
		if errors.Is(err, services.ErrNotFollowing) {
			respondError(w, "Follow relationship not found", http.StatusNotFound)
			return
		}
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("following_id", followingID).
			Msg("Failed to unfollow")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// List handles GET /follows
func (h *FollowHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requesterID := middleware.GetUserID(ctx)

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = requesterID
	}

	var (
		users []services.FollowListEntry
		err   error
	)
	if r.URL.Query().Get("type") == "followers" {
		users, err = h.followService.ListFollowers(ctx, userID)
	} else {
		users, err = h.followService.ListFollowing(ctx, userID)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list follows")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"users": users}, http.StatusOK)
}

// Status handles GET /follows/status
func (h *FollowHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	targetID := r.URL.Query().Get("userId")
	if targetID == "" {
		respondError(w, "userId is required", http.StatusBadRequest)
		return
	}

	status, err := h.followService.Status(ctx, userID, targetID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("target_id", targetID).
			Msg("Failed to get follow status")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, status, http.StatusOK)
}

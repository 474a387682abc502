package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ReactionHandler handles reaction HTTP requests
type ReactionHandler struct {
	reactionService *services.ReactionService
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// AddReactionRequest represents the request body for adding a reaction
type AddReactionRequest struct {
	CheckinID    string `json:"checkinId"`
	ReactionType string `json:"reactionType"`
}

// Add handles POST /reactions
func (h *ReactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req AddReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CheckinID == "" || req.ReactionType == "" {
		respondError(w, "checkinId and reactionType are required", http.StatusBadRequest)
		return
	}

	reactionType := models.ReactionType(req.ReactionType)
	if !reactionType.Valid() {
		respondError(w, "Invalid reaction type", http.StatusBadRequest)
		return
	}

	if err := h.reactionService.React(ctx, userID, req.CheckinID, reactionType); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("checkin_id", req.CheckinID).
			Msg("Failed to add reaction")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// Remove handles DELETE /reactions
func (h *ReactionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	checkinID := r.URL.Query().Get("checkinId")
	if checkinID == "" {
		respondError(w, "checkinId is required", http.StatusBadRequest)
		return
	}

	var reactionType *models.ReactionType
	if typeStr := r.URL.Query().Get("reactionType"); typeStr != "" {
		t := models.ReactionType(typeStr)
		reactionType = &t
	}

	if err := h.reactionService.Unreact(ctx, userID, checkinID, reactionType); err != nil {
		if errors.Is(err, services.ErrInvalidReactionType) {
			respondError(w, "Invalid reaction type", http.StatusBadRequest)
			return
		}
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("checkin_id", checkinID).
			Msg("Failed to remove reaction")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

// Get handles GET /reactions
func (h *ReactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requesterID := middleware.GetUserID(ctx)

	checkinID := r.URL.Query().Get("checkinId")
	userID := r.URL.Query().Get("userId")

	switch {
	case checkinID != "":
		summary, err := h.reactionService.GetForCheckin(ctx, checkinID, requesterID)
		if err != nil {
			log.Error().Err(err).Str("checkin_id", checkinID).Msg("Failed to get reactions")
			respondError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, summary, http.StatusOK)
	case userID != "":
		reactions, err := h.reactionService.ListByUser(ctx, userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to list reactions")
			respondError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]interface{}{"reactions": reactions}, http.StatusOK)
	default:
		respondError(w, "checkinId or userId is required", http.StatusBadRequest)
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FeedHandler handles social feed HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFeed handles GET /social/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil {
			page = parsed
		}
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	feed, err := h.feedService.GetFeed(ctx, userID, page, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get feed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, feed, http.StatusOK)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"daily-checkin-backend/internal/middleware"
	"daily-checkin-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler handles photo upload slot requests
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadURLRequest represents the request body for an upload slot
type UploadURLRequest struct {
	ContentType string `json:"contentType"`
}

// CreateUploadURL handles POST /upload-url
func (h *UploadHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	// Body is optional; content type defaults to image/jpeg.
	var req UploadURLRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	slot, err := h.uploadService.CreateUploadSlot(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create upload slot")
		respondError(w, "Failed to create upload URL", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("path", slot.Path).
		Msg("Upload slot created")

	respondJSON(w, slot, http.StatusOK)
}

package handlers

import (
	"net/http"

	"daily-checkin-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the feed-event stream
type WebSocketHandler struct {
	hub         *services.FeedHub
	authService *services.AuthService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.FeedHub, authService *services.AuthService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, authService: authService}
}

// HandleWebSocket handles GET /ws. The token arrives as a query parameter
// because browsers cannot set headers on WebSocket upgrades.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	identity, err := h.authService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.hub.Register(identity.UserID, conn)
	defer h.hub.Unregister(identity.UserID)

	log.Info().Str("user_id", identity.UserID).Msg("Feed stream established")

	// The stream is server-to-client only; the read loop exists to detect
	// disconnects and drain control frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", identity.UserID).Msg("Feed stream error")
			}
			break
		}
	}
}

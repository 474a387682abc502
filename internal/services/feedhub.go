package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"daily-checkin-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// FeedEvent is a message pushed to a connected client when something in
// their feed changes
type FeedEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// feedConn wraps a WebSocket connection with a write lock. gorilla/websocket
// allows at most one concurrent writer per connection and panics otherwise,
// and sends arrive from multiple notification goroutines.
type feedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *feedConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *feedConn) close() {
	c.conn.Close()
}

// FeedHub manages the WebSocket connections of online users. It is the
// explicit notification channel between mutating operations and their
// observers: when a followee checks in, online followers get an event and
// can re-fetch their feed.
type FeedHub struct {
	mu          sync.RWMutex
	connections map[string]*feedConn
}

// NewFeedHub creates a new feed hub
func NewFeedHub() *FeedHub {
	return &FeedHub{
		connections: make(map[string]*feedConn),
	}
}

// Register registers a WebSocket connection for a user, replacing any
// existing one
func (h *FeedHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.close()
	}
	h.connections[userID] = &feedConn{conn: conn}

	log.Info().Str("user_id", userID).Msg("Feed connection registered")
}

// Unregister removes a user's WebSocket connection
func (h *FeedHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("Feed connection unregistered")
	}
}

// IsOnline checks whether a user has a live connection
func (h *FeedHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends an event to one connected user
func (h *FeedHub) SendToUser(userID string, event FeedEvent) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.write(data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}

	return nil
}

// Broadcast sends an event to every listed user that is online
func (h *FeedHub) Broadcast(userIDs []string, event FeedEvent) {
	for _, userID := range userIDs {
		if !h.IsOnline(userID) {
			continue
		}
		if err := h.SendToUser(userID, event); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to send feed event")
		}
	}
}

// CheckinCreatedEvent builds the event broadcast to followers when a user
// checks in
func CheckinCreatedEvent(checkin *models.Checkin) FeedEvent {
	return FeedEvent{
		Type: "checkin_created",
		Data: map[string]interface{}{
			"checkin_id": checkin.ID,
			"user_id":    checkin.UserID,
			"photo_url":  checkin.PhotoURL,
			"created_at": checkin.CreatedAt.Format(time.RFC3339),
		},
	}
}

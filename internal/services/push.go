package services

import (
	"fmt"

	"daily-checkin-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// PushService sends APNs notifications to followers' registered devices.
// A nil *PushService is valid and means push is disabled.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a token-authenticated APNs client. Returns nil when
// push is disabled in config.
func NewPushService(cfg config.APNSConfig) (*PushService, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{client: client, topic: cfg.Topic}, nil
}

// NotifyCheckin pushes a "just checked in" alert to one device. Failures are
// logged and never propagate; push is best-effort.
func (s *PushService) NotifyCheckin(deviceToken, ownerName string) {
	if s == nil {
		return
	}

	p := payload.NewPayload().
		AlertTitle("New check-in").
		AlertBody(ownerName + " just checked in").
		Sound("default")

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     p,
	}

	res, err := s.client.Push(notification)
	if err != nil {
		log.Error().Err(err).Msg("Failed to push check-in notification")
		return
	}
	if !res.Sent() {
		log.Warn().
			Int("status", res.StatusCode).
			Str("reason", res.Reason).
			Msg("APNs rejected check-in notification")
	}
}

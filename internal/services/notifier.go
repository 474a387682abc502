package services

import (
	"context"

	"daily-checkin-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// FollowerIDLister yields the ids of a user's followers
type FollowerIDLister interface {
	ListFollowerIDs(ctx context.Context, userID string) ([]string, error)
}

// PushTokenLister yields the device tokens of a user's followers
type PushTokenLister interface {
	FollowerPushTokens(ctx context.Context, userID string) ([]string, error)
}

// NotificationService fans a new check-in out to the owner's followers over
// the feed hub and, when enabled, APNs. Both channels are best-effort: a
// check-in is never failed because a notification could not be delivered.
type NotificationService struct {
	follows  FollowerIDLister
	profiles PushTokenLister
	hub      *FeedHub
	push     *PushService
}

// NewNotificationService creates a new notification service
func NewNotificationService(follows FollowerIDLister, profiles PushTokenLister, hub *FeedHub, push *PushService) *NotificationService {
	return &NotificationService{
		follows:  follows,
		profiles: profiles,
		hub:      hub,
		push:     push,
	}
}

// CheckinCreated notifies the owner's online followers and pushes to
// registered follower devices
func (s *NotificationService) CheckinCreated(ctx context.Context, checkin *models.Checkin, ownerName string) {
	followerIDs, err := s.follows.ListFollowerIDs(ctx, checkin.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", checkin.UserID).Msg("Failed to list followers for notification")
	} else if s.hub != nil {
		s.hub.Broadcast(followerIDs, CheckinCreatedEvent(checkin))
	}

	if s.push == nil {
		return
	}
	tokens, err := s.profiles.FollowerPushTokens(ctx, checkin.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", checkin.UserID).Msg("Failed to load follower push tokens")
		return
	}
	for _, deviceToken := range tokens {
		s.push.NotifyCheckin(deviceToken, ownerName)
	}
}

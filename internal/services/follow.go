package services

import (
	"context"
	"fmt"
	"time"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"

	"github.com/google/uuid"
)

// FollowStore is the persistence surface the follow service needs
type FollowStore interface {
	Create(ctx context.Context, follow *models.Follow) (bool, error)
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	ListFollowing(ctx context.Context, userID string) ([]*repository.FollowEntry, error)
	ListFollowers(ctx context.Context, userID string) ([]*repository.FollowEntry, error)
}

// FollowStatus describes the relationship between the caller and a target user
type FollowStatus struct {
	IsFollowing    bool `json:"isFollowing"`
	IsFollowedBy   bool `json:"isFollowedBy"`
	FollowingCount int  `json:"followingCount"`
	FollowersCount int  `json:"followersCount"`
}

// FollowListEntry is one user in a following/followers listing
type FollowListEntry struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	FollowedAt  time.Time `json:"followedAt"`
}

// FollowService handles follow-graph business logic
type FollowService struct {
	follows FollowStore
}

// NewFollowService creates a new follow service
func NewFollowService(follows FollowStore) *FollowService {
	return &FollowService{follows: follows}
}

// Follow creates a directed edge from follower to followee. Self-follows are
// rejected before reaching storage; duplicates surface as ErrAlreadyFollowing.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	follow := &models.Follow{
		ID:          uuid.New().String(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.follows.Create(ctx, follow)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	if !created {
		return ErrAlreadyFollowing
	}
	return nil
}

// Unfollow removes the edge from follower to followee
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	deleted, err := s.follows.Delete(ctx, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	if !deleted {
		return ErrNotFollowing
	}
	return nil
}

// Status reports the relationship between the caller and the target user,
// plus the target's follow counts
func (s *FollowService) Status(ctx context.Context, userID, targetID string) (*FollowStatus, error) {
	isFollowing, err := s.follows.Exists(ctx, userID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check following: %w", err)
	}
	isFollowedBy, err := s.follows.Exists(ctx, targetID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check followed by: %w", err)
	}
	followingCount, err := s.follows.CountFollowing(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	followersCount, err := s.follows.CountFollowers(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	return &FollowStatus{
		IsFollowing:    isFollowing,
		IsFollowedBy:   isFollowedBy,
		FollowingCount: followingCount,
		FollowersCount: followersCount,
	}, nil
}

// ListFollowing lists the accounts the user follows
func (s *FollowService) ListFollowing(ctx context.Context, userID string) ([]FollowListEntry, error) {
	entries, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return buildFollowList(entries), nil
}

// ListFollowers lists the accounts following the user
func (s *FollowService) ListFollowers(ctx context.Context, userID string) ([]FollowListEntry, error) {
	entries, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return buildFollowList(entries), nil
}

func buildFollowList(entries []*repository.FollowEntry) []FollowListEntry {
	list := make([]FollowListEntry, 0, len(entries))
	for _, entry := range entries {
		list = append(list, FollowListEntry{
			ID:          entry.UserID,
			Username:    usernameOrFallback(entry.Username, entry.UserID),
			DisplayName: displayNameOrFallback(entry.DisplayName, entry.UserID),
			FollowedAt:  entry.FollowedAt,
		})
	}
	return list
}

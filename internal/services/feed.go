package services

import (
	"context"
	"fmt"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"
)

const (
	feedDefaultLimit = 20
	feedMaxLimit     = 50
)

// FeedStore is the persistence surface the feed service needs
type FeedStore interface {
	ListFeed(ctx context.Context, followerID string, limit, offset int) ([]*repository.FeedRow, int, error)
}

// FeedReactionStore batch-fetches reaction data for a page of check-ins
type FeedReactionStore interface {
	AggregateForCheckins(ctx context.Context, checkinIDs []string, requesterID string) (map[string][]models.ReactionAggregate, error)
	TypesForUserByCheckins(ctx context.Context, userID string, checkinIDs []string) (map[string][]models.ReactionType, error)
}

// FeedPage is one page of a user's social feed
type FeedPage struct {
	Checkins   []models.FeedItem `json:"checkins"`
	Pagination models.Pagination `json:"pagination"`
}

// FeedService assembles the paginated feed of followed users' check-ins
type FeedService struct {
	feed      FeedStore
	reactions FeedReactionStore
}

// NewFeedService creates a new feed service
func NewFeedService(feed FeedStore, reactions FeedReactionStore) *FeedService {
	return &FeedService{feed: feed, reactions: reactions}
}

// GetFeed returns the page of check-ins visible to the user through the
// follow graph, newest first, decorated with reaction aggregates. A page
// past the end clamps to the last valid page; following nobody yields an
// empty page, not an error.
func (s *FeedService) GetFeed(ctx context.Context, userID string, page, limit int) (*FeedPage, error) {
	if limit <= 0 {
		limit = feedDefaultLimit
	}
	if limit > feedMaxLimit {
		limit = feedMaxLimit
	}
	if page < 1 {
		page = 1
	}

	// First pass establishes the total so out-of-range pages can clamp.
	rows, total, err := s.feed.ListFeed(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		page = 1
	} else if page > totalPages {
		page = totalPages
		rows, total, err = s.feed.ListFeed(ctx, userID, limit, (page-1)*limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load feed: %w", err)
		}
	}

	checkinIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		checkinIDs = append(checkinIDs, row.Checkin.ID)
	}

	aggregates, err := s.reactions.AggregateForCheckins(ctx, checkinIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed reactions: %w", err)
	}
	ownTypes, err := s.reactions.TypesForUserByCheckins(ctx, userID, checkinIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load own reactions: %w", err)
	}

	items := make([]models.FeedItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.buildItem(row, aggregates, ownTypes))
	}

	return &FeedPage{
		Checkins: items,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

func (s *FeedService) buildItem(row *repository.FeedRow, aggregates map[string][]models.ReactionAggregate, ownTypes map[string][]models.ReactionType) models.FeedItem {
	checkin := row.Checkin

	reactions := aggregates[checkin.ID]
	if reactions == nil {
		reactions = []models.ReactionAggregate{}
	}
	userReactions := ownTypes[checkin.ID]
	if userReactions == nil {
		userReactions = []models.ReactionType{}
	}

	return models.FeedItem{
		ID:         checkin.ID,
		PhotoURL:   checkin.PhotoURL,
		Location:   checkin.Location,
		DeviceInfo: checkin.DeviceInfo,
		CreatedAt:  checkin.CreatedAt,
		User: models.FeedUser{
			ID:          checkin.UserID,
			Username:    usernameOrFallback(row.Username, checkin.UserID),
			DisplayName: displayNameOrFallback(row.DisplayName, checkin.UserID),
		},
		Reactions:     reactions,
		UserReactions: userReactions,
	}
}

// usernameOrFallback substitutes a derived handle when no profile row exists yet
func usernameOrFallback(username *string, userID string) string {
	if username != nil && *username != "" {
		return *username
	}
	return "user_" + shortID(userID)
}

// displayNameOrFallback substitutes a readable name when the profile has none
func displayNameOrFallback(displayName *string, userID string) string {
	if displayName != nil && *displayName != "" {
		return *displayName
	}
	return "User " + shortID(userID)
}

func shortID(userID string) string {
	if len(userID) > 8 {
		return userID[:8]
	}
	return userID
}

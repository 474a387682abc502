package services

import (
	"context"
	"fmt"
	"time"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"

	"github.com/google/uuid"
)

// ReactionStore is the persistence surface the reaction service needs
type ReactionStore interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	DeleteType(ctx context.Context, userID, checkinID string, reactionType models.ReactionType) error
	DeleteAll(ctx context.Context, userID, checkinID string) error
	AggregateForCheckin(ctx context.Context, checkinID, requesterID string) ([]models.ReactionAggregate, error)
	TypesForUser(ctx context.Context, userID, checkinID string) ([]models.ReactionType, error)
	ListByUser(ctx context.Context, userID string) ([]*repository.UserReactionRow, error)
}

// ReactionSummary is the aggregate view of one check-in's reactions as seen
// by the requesting user
type ReactionSummary struct {
	Reactions     []models.ReactionAggregate `json:"reactions"`
	UserReactions []models.ReactionType      `json:"userReactions"`
}

// UserReaction is one entry in a user's reaction history, flattened with the
// reacted check-in's photo
type UserReaction struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId"`
	CheckinID        string              `json:"checkinId"`
	Type             models.ReactionType `json:"type"`
	CreatedAt        time.Time           `json:"createdAt"`
	PhotoURL         string              `json:"photoUrl"`
	CheckinCreatedAt time.Time           `json:"checkinCreatedAt"`
}

// ReactionService handles reaction business logic
type ReactionService struct {
	reactions ReactionStore
}

// NewReactionService creates a new reaction service
func NewReactionService(reactions ReactionStore) *ReactionService {
	return &ReactionService{reactions: reactions}
}

// React places a typed reaction on a check-in. Re-adding a type the user
// already holds is a no-op success. A user may hold one reaction of each
// type on the same check-in simultaneously.
func (s *ReactionService) React(ctx context.Context, userID, checkinID string, reactionType models.ReactionType) error {
	if !reactionType.Valid() {
		return ErrInvalidReactionType
	}

	reaction := &models.Reaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		CheckinID: checkinID,
		Type:      reactionType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reactions.Create(ctx, reaction); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// Unreact removes the given reaction type, or every reaction the user holds
// on the check-in when no type is given. Removing an absent reaction is
// still success.
func (s *ReactionService) Unreact(ctx context.Context, userID, checkinID string, reactionType *models.ReactionType) error {
	if reactionType != nil {
		if !reactionType.Valid() {
			return ErrInvalidReactionType
		}
		if err := s.reactions.DeleteType(ctx, userID, checkinID, *reactionType); err != nil {
			return fmt.Errorf("failed to remove reaction: %w", err)
		}
		return nil
	}

	if err := s.reactions.DeleteAll(ctx, userID, checkinID); err != nil {
		return fmt.Errorf("failed to remove reactions: %w", err)
	}
	return nil
}

// GetForCheckin returns the per-type counts on a check-in plus the types the
// requesting user placed
func (s *ReactionService) GetForCheckin(ctx context.Context, checkinID, requesterID string) (*ReactionSummary, error) {
	aggregates, err := s.reactions.AggregateForCheckin(ctx, checkinID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	ownTypes, err := s.reactions.TypesForUser(ctx, requesterID, checkinID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reactions: %w", err)
	}

	if aggregates == nil {
		aggregates = []models.ReactionAggregate{}
	}
	if ownTypes == nil {
		ownTypes = []models.ReactionType{}
	}

	return &ReactionSummary{Reactions: aggregates, UserReactions: ownTypes}, nil
}

// ListByUser lists every reaction a user has placed, newest first
func (s *ReactionService) ListByUser(ctx context.Context, userID string) ([]UserReaction, error) {
	rows, err := s.reactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	reactions := make([]UserReaction, 0, len(rows))
	for _, row := range rows {
		reactions = append(reactions, UserReaction{
			ID:               row.Reaction.ID,
			UserID:           row.Reaction.UserID,
			CheckinID:        row.Reaction.CheckinID,
			Type:             row.Reaction.Type,
			CreatedAt:        row.Reaction.CreatedAt,
			PhotoURL:         row.PhotoURL,
			CheckinCreatedAt: row.CheckinCreatedAt,
		})
	}
	return reactions, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"daily-checkin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReactionRepository handles database operations for reactions
type ReactionRepository struct {
	db *pgxpool.Pool
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Create inserts a reaction. The (user, checkin, type) tuple carries a
// unique constraint and re-adding an existing type is a no-op, which makes
// the add idempotent.
func (r *ReactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	query := `
		INSERT INTO reactions (id, user_id, checkin_id, reaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, checkin_id, reaction_type) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		reaction.ID, reaction.UserID, reaction.CheckinID, reaction.Type, reaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reaction: %w", err)
	}
	return nil
}

// DeleteType removes one reaction type a user placed on a check-in.
// Deleting an absent row is not an error.
func (r *ReactionRepository) DeleteType(ctx context.Context, userID, checkinID string, reactionType models.ReactionType) error {
	query := `DELETE FROM reactions WHERE user_id = $1 AND checkin_id = $2 AND reaction_type = $3`
	_, err := r.db.Exec(ctx, query, userID, checkinID, reactionType)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

// DeleteAll removes every reaction a user placed on a check-in
func (r *ReactionRepository) DeleteAll(ctx context.Context, userID, checkinID string) error {
	query := `DELETE FROM reactions WHERE user_id = $1 AND checkin_id = $2`
	_, err := r.db.Exec(ctx, query, userID, checkinID)
	if err != nil {
		return fmt.Errorf("failed to delete reactions: %w", err)
	}
	return nil
}

// AggregateForCheckin returns the per-type counts for one check-in, with a
// flag for whether the requesting user is among the reactors of each type
func (r *ReactionRepository) AggregateForCheckin(ctx context.Context, checkinID, requesterID string) ([]models.ReactionAggregate, error) {
	query := `
		SELECT reaction_type, COUNT(*), BOOL_OR(user_id = $1)
		FROM reactions
		WHERE checkin_id = $2
		GROUP BY reaction_type
	`
	rows, err := r.db.Query(ctx, query, requesterID, checkinID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reactions: %w", err)
	}
	defer rows.Close()

	var aggregates []models.ReactionAggregate
	for rows.Next() {
		var agg models.ReactionAggregate
		if err := rows.Scan(&agg.Type, &agg.Count, &agg.UserReacted); err != nil {
			return nil, fmt.Errorf("failed to scan reaction aggregate: %w", err)
		}
		aggregates = append(aggregates, agg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reaction aggregates: %w", err)
	}

	return aggregates, nil
}

// TypesForUser returns the reaction types one user holds on one check-in
func (r *ReactionRepository) TypesForUser(ctx context.Context, userID, checkinID string) ([]models.ReactionType, error) {
	query := `SELECT reaction_type FROM reactions WHERE user_id = $1 AND checkin_id = $2`
	rows, err := r.db.Query(ctx, query, userID, checkinID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reactions: %w", err)
	}
	defer rows.Close()

	var types []models.ReactionType
	for rows.Next() {
		var t models.ReactionType
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan reaction type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reaction types: %w", err)
	}

	return types, nil
}

// AggregateForCheckins batch-fetches per-type counts for a set of check-ins,
// keyed by check-in id. Used to decorate a feed page in one round trip.
func (r *ReactionRepository) AggregateForCheckins(ctx context.Context, checkinIDs []string, requesterID string) (map[string][]models.ReactionAggregate, error) {
	aggregates := make(map[string][]models.ReactionAggregate)
	if len(checkinIDs) == 0 {
		return aggregates, nil
	}

	query := `
		SELECT checkin_id, reaction_type, COUNT(*), BOOL_OR(user_id = $1)
		FROM reactions
		WHERE checkin_id = ANY($2)
		GROUP BY checkin_id, reaction_type
	`
	rows, err := r.db.Query(ctx, query, requesterID, checkinIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch aggregate reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var checkinID string
		var agg models.ReactionAggregate
		if err := rows.Scan(&checkinID, &agg.Type, &agg.Count, &agg.UserReacted); err != nil {
			return nil, fmt.Errorf("failed to scan reaction aggregate: %w", err)
		}
		aggregates[checkinID] = append(aggregates[checkinID], agg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reaction aggregates: %w", err)
	}

	return aggregates, nil
}

// TypesForUserByCheckins batch-fetches the requesting user's own reaction
// types across a set of check-ins, keyed by check-in id
func (r *ReactionRepository) TypesForUserByCheckins(ctx context.Context, userID string, checkinIDs []string) (map[string][]models.ReactionType, error) {
	types := make(map[string][]models.ReactionType)
	if len(checkinIDs) == 0 {
		return types, nil
	}

	query := `SELECT checkin_id, reaction_type FROM reactions WHERE user_id = $1 AND checkin_id = ANY($2)`
	rows, err := r.db.Query(ctx, query, userID, checkinIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var checkinID string
		var t models.ReactionType
		if err := rows.Scan(&checkinID, &t); err != nil {
			return nil, fmt.Errorf("failed to scan reaction type: %w", err)
		}
		types[checkinID] = append(types[checkinID], t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reaction types: %w", err)
	}

	return types, nil
}

// UserReactionRow is one reaction in a user's reaction history, joined with
// the reacted check-in
type UserReactionRow struct {
	Reaction         models.Reaction
	PhotoURL         string
	CheckinCreatedAt time.Time
}

// ListByUser lists every reaction a user has placed, newest first
func (r *ReactionRepository) ListByUser(ctx context.Context, userID string) ([]*UserReactionRow, error) {
	query := `
		SELECT r.id, r.user_id, r.checkin_id, r.reaction_type, r.created_at,
		       c.photo_url, c.created_at
		FROM reactions r
		JOIN checkins c ON r.checkin_id = c.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	defer rows.Close()

	var reactions []*UserReactionRow
	for rows.Next() {
		var row UserReactionRow
		err := rows.Scan(
			&row.Reaction.ID, &row.Reaction.UserID, &row.Reaction.CheckinID,
			&row.Reaction.Type, &row.Reaction.CreatedAt,
			&row.PhotoURL, &row.CheckinCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions = append(reactions, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reactions: %w", err)
	}

	return reactions, nil
}

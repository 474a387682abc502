package repository

import (
	"context"
	"fmt"
	"time"

	"daily-checkin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowRepository handles database operations for follow edges
type FollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge. The (follower, following) pair carries a
// unique constraint; returns false when the edge already existed.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	query := `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query,
		follow.ID, follow.FollowerID, follow.FollowingID, follow.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Delete removes a follow edge; returns false when no edge existed
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	result, err := r.db.Exec(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Exists checks whether follower follows following
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// CountFollowing counts how many accounts the user follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM follows WHERE follower_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count following: %w", err)
	}
	return count, nil
}

// CountFollowers counts how many accounts follow the user
func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM follows WHERE following_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

// FollowEntry is one row of a following/followers listing, joined with the
// counterpart's profile when it exists
type FollowEntry struct {
	UserID      string
	Username    *string
	DisplayName *string
	FollowedAt  time.Time
}

// ListFollowing lists the accounts the user follows, newest edge first
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]*FollowEntry, error) {
	query := `
		SELECT f.following_id, p.username, p.display_name, f.created_at
		FROM follows f
		LEFT JOIN profiles p ON f.following_id = p.user_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`
	return r.listEntries(ctx, query, userID)
}

// ListFollowers lists the accounts following the user, newest edge first
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]*FollowEntry, error) {
	query := `
		SELECT f.follower_id, p.username, p.display_name, f.created_at
		FROM follows f
		LEFT JOIN profiles p ON f.follower_id = p.user_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
	`
	return r.listEntries(ctx, query, userID)
}

// ListFollowerIDs returns the ids of everyone following the user
func (r *FollowRepository) ListFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT follower_id FROM follows WHERE following_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follower ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follower id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follower ids: %w", err)
	}

	return ids, nil
}

func (r *FollowRepository) listEntries(ctx context.Context, query, userID string) ([]*FollowEntry, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	var entries []*FollowEntry
	for rows.Next() {
		var entry FollowEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.DisplayName, &entry.FollowedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow entries: %w", err)
	}

	return entries, nil
}

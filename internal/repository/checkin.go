package repository

import (
	"context"
	"fmt"
	"time"

	"daily-checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckinRepository handles database operations for check-ins
type CheckinRepository struct {
	db *pgxpool.Pool
}

// NewCheckinRepository creates a new check-in repository
func NewCheckinRepository(db *pgxpool.Pool) *CheckinRepository {
	return &CheckinRepository{db: db}
}

// Create inserts the check-in unless another check-in for the same user
// exists at or after notBefore. The existence check and the insert are one
// statement, so two concurrent requests cannot both slip past the cooldown.
// Returns false when the cooldown blocked the insert.
func (r *CheckinRepository) Create(ctx context.Context, checkin *models.Checkin, notBefore time.Time) (bool, error) {
	query := `
		INSERT INTO checkins (id, user_id, photo_url, location, device_info, created_at)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE NOT EXISTS (
			SELECT 1 FROM checkins WHERE user_id = $2 AND created_at >= $7
		)
	`
	result, err := r.db.Exec(ctx, query,
		checkin.ID, checkin.UserID, checkin.PhotoURL,
		checkin.Location, checkin.DeviceInfo, checkin.CreatedAt, notBefore,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create checkin: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetByIDAndUser retrieves a check-in by id, scoped to its owner
func (r *CheckinRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Checkin, error) {
	query := `
		SELECT id, user_id, photo_url, location, device_info, created_at
		FROM checkins
		WHERE id = $1 AND user_id = $2
	`
	var checkin models.Checkin
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&checkin.ID, &checkin.UserID, &checkin.PhotoURL,
		&checkin.Location, &checkin.DeviceInfo, &checkin.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("checkin %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get checkin: %w", err)
	}
	return &checkin, nil
}

// ListByUser retrieves a user's own check-ins, newest first
func (r *CheckinRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Checkin, error) {
	query := `
		SELECT id, user_id, photo_url, location, device_info, created_at
		FROM checkins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	defer rows.Close()

	var checkins []*models.Checkin
	for rows.Next() {
		var checkin models.Checkin
		err := rows.Scan(
			&checkin.ID, &checkin.UserID, &checkin.PhotoURL,
			&checkin.Location, &checkin.DeviceInfo, &checkin.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		checkins = append(checkins, &checkin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkins: %w", err)
	}

	return checkins, nil
}

// FeedRow is one feed entry joined with the owner's profile
type FeedRow struct {
	Checkin     models.Checkin
	Username    *string
	DisplayName *string
}

// ListFeed retrieves one page of check-ins posted by accounts the given
// user follows, newest first, along with the total count for pagination
func (r *CheckinRepository) ListFeed(ctx context.Context, followerID string, limit, offset int) ([]*FeedRow, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM checkins c
		JOIN follows f ON c.user_id = f.following_id
		WHERE f.follower_id = $1
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, followerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count feed checkins: %w", err)
	}

	query := `
		SELECT c.id, c.user_id, c.photo_url, c.location, c.device_info, c.created_at,
		       p.username, p.display_name
		FROM checkins c
		JOIN follows f ON c.user_id = f.following_id
		LEFT JOIN profiles p ON c.user_id = p.user_id
		WHERE f.follower_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, followerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get feed: %w", err)
	}
	defer rows.Close()

	var feed []*FeedRow
	for rows.Next() {
		var row FeedRow
		err := rows.Scan(
			&row.Checkin.ID, &row.Checkin.UserID, &row.Checkin.PhotoURL,
			&row.Checkin.Location, &row.Checkin.DeviceInfo, &row.Checkin.CreatedAt,
			&row.Username, &row.DisplayName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feed = append(feed, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feed, total, nil
}

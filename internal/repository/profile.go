package repository

import (
	"context"
	"fmt"

	"daily-checkin-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile. The username column carries a unique
// constraint; a collision surfaces as ErrUniqueViolation so the caller can
// retry with the next candidate.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, username, display_name, background_url, push_token, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.UserID, profile.Username, profile.DisplayName,
		profile.BackgroundURL, profile.PushToken, profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q taken: %w", profile.Username, ErrUniqueViolation)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves a profile by its owning user id
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, user_id, username, display_name, background_url, push_token, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Username, &profile.DisplayName,
		&profile.BackgroundURL, &profile.PushToken, &profile.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UsernameTaken checks whether a username is held by any other user
func (r *ProfileRepository) UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE username = $1 AND user_id != $2)`
	var taken bool
	if err := r.db.QueryRow(ctx, query, username, excludeUserID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return taken, nil
}

// UpdateUsername sets a new username and returns the stored value
func (r *ProfileRepository) UpdateUsername(ctx context.Context, userID, username string) (string, error) {
	query := `
		UPDATE profiles
		SET username = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING username
	`
	var stored string
	err := r.db.QueryRow(ctx, query, username, userID).Scan(&stored)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return "", fmt.Errorf("username %q taken: %w", username, ErrUniqueViolation)
		}
		return "", fmt.Errorf("failed to update username: %w", err)
	}
	return stored, nil
}

// BackfillDisplayName fills the display name only when it is still empty
func (r *ProfileRepository) BackfillDisplayName(ctx context.Context, userID, displayName string) error {
	query := `UPDATE profiles SET display_name = COALESCE(display_name, $2) WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID, displayName)
	if err != nil {
		return fmt.Errorf("failed to backfill display name: %w", err)
	}
	return nil
}

// UpdateBackground sets the profile background image URL
func (r *ProfileRepository) UpdateBackground(ctx context.Context, userID, backgroundURL string) error {
	query := `UPDATE profiles SET background_url = $1, updated_at = NOW() WHERE user_id = $2`
	result, err := r.db.Exec(ctx, query, backgroundURL, userID)
	if err != nil {
		return fmt.Errorf("failed to update background: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// UpdatePushToken sets or clears the APNs device token for a user
func (r *ProfileRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE profiles SET push_token = $1, updated_at = NOW() WHERE user_id = $2`
	result, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile for user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// Search finds profiles whose username contains the query, case-insensitive,
// excluding the searching user
func (r *ProfileRepository) Search(ctx context.Context, query, excludeUserID string, limit int) ([]*models.Profile, error) {
	sql := `
		SELECT id, user_id, username, display_name, background_url, push_token, updated_at
		FROM profiles
		WHERE username ILIKE $1 AND user_id != $2
		ORDER BY username
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, sql, "%"+query+"%", excludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var profile models.Profile
		err := rows.Scan(
			&profile.ID, &profile.UserID, &profile.Username, &profile.DisplayName,
			&profile.BackgroundURL, &profile.PushToken, &profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// FollowerPushTokens returns the registered device tokens of everyone who
// follows the given user
func (r *ProfileRepository) FollowerPushTokens(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT p.push_token
		FROM follows f
		JOIN profiles p ON p.user_id = f.follower_id
		WHERE f.following_id = $1 AND p.push_token IS NOT NULL
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get follower push tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan push token: %w", err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating push tokens: %w", err)
	}

	return tokens, nil
}

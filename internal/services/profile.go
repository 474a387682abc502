package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	usernameMinLength   = 2
	searchMinLength     = 2
	searchLimit         = 20
	maxProvisionRetries = 100
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ProfileStore is the persistence surface the profile service needs
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error)
	UpdateUsername(ctx context.Context, userID, username string) (string, error)
	BackfillDisplayName(ctx context.Context, userID, displayName string) error
	UpdateBackground(ctx context.Context, userID, backgroundURL string) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	Search(ctx context.Context, query, excludeUserID string, limit int) ([]*models.Profile, error)
}

// SearchResult is one user in a username search response
type SearchResult struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// ProfileService handles profile business logic, including the lazy
// provisioning of a profile the first time a user touches one
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Ensure returns the user's profile, creating it on first touch. The
// username derives from the email local-part with an incrementing integer
// suffix on collision. Uniqueness rests on the username constraint: a
// concurrent insert of the same candidate surfaces as a unique violation
// and the loop moves to the next suffix.
func (s *ProfileService) Ensure(ctx context.Context, userID, email string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	base := usernameBase(email)
	displayName := displayNameBase(email)

	for attempt := 0; attempt < maxProvisionRetries; attempt++ {
		username := base
		if attempt > 0 {
			username = base + strconv.Itoa(attempt)
		}

		candidate := &models.Profile{
			ID:          uuid.New().String(),
			UserID:      userID,
			Username:    username,
			DisplayName: &displayName,
			UpdatedAt:   time.Now().UTC(),
		}
		err := s.profiles.Create(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, repository.ErrUniqueViolation) {
			// Either the username collided or a concurrent request already
			// provisioned this user's profile; re-check before retrying.
			if existing, getErr := s.profiles.GetByUserID(ctx, userID); getErr == nil {
				return existing, nil
			}
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to provision profile after %d attempts", maxProvisionRetries)
}

// Sync idempotently provisions the profile and backfills a missing display name
func (s *ProfileService) Sync(ctx context.Context, userID, email string) error {
	if _, err := s.Ensure(ctx, userID, email); err != nil {
		return err
	}
	if err := s.profiles.BackfillDisplayName(ctx, userID, displayNameBase(email)); err != nil {
		return err
	}
	return nil
}

// UpdateUsername validates and stores a new username. Returns the stored
// value; a username held by another user fails with ErrUsernameTaken.
func (s *ProfileService) UpdateUsername(ctx context.Context, userID, email, username string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < usernameMinLength || !usernamePattern.MatchString(username) {
		return "", ErrInvalidUsername
	}

	if _, err := s.Ensure(ctx, userID, email); err != nil {
		return "", err
	}

	taken, err := s.profiles.UsernameTaken(ctx, username, userID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUsernameTaken
	}

	stored, err := s.profiles.UpdateUsername(ctx, userID, username)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return "", ErrUsernameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return stored, nil
}

// UpdateBackground sets the profile background image URL
func (s *ProfileService) UpdateBackground(ctx context.Context, userID, email, backgroundURL string) error {
	if _, err := s.Ensure(ctx, userID, email); err != nil {
		return err
	}
	if err := s.profiles.UpdateBackground(ctx, userID, backgroundURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

// UpdatePushToken registers or clears the user's APNs device token
func (s *ProfileService) UpdatePushToken(ctx context.Context, userID, email string, pushToken *string) error {
	if _, err := s.Ensure(ctx, userID, email); err != nil {
		return err
	}
	if err := s.profiles.UpdatePushToken(ctx, userID, pushToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

// Search finds users by case-insensitive username substring, excluding the
// caller, capped at 20 results
func (s *ProfileService) Search(ctx context.Context, userID, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinLength {
		return nil, ErrSearchTooShort
	}

	profiles, err := s.profiles.Search(ctx, query, userID, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(profiles))
	for _, profile := range profiles {
		displayName := profile.Username
		if profile.DisplayName != nil && *profile.DisplayName != "" {
			displayName = *profile.DisplayName
		}
		results = append(results, SearchResult{
			ID:          profile.UserID,
			Username:    profile.Username,
			DisplayName: displayName,
		})
	}
	return results, nil
}

// usernameBase derives a username seed from the email local-part, reduced to
// the allowed alphabet
func usernameBase(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) < usernameMinLength {
		return "user"
	}
	return base
}

func displayNameBase(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "User"
}

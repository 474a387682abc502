package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"

	"github.com/google/uuid"
)

// CooldownWindow is the minimum spacing between a user's consecutive check-ins.
const CooldownWindow = 10 * time.Minute

const checkinPageSize = 30

// CheckinStore is the persistence surface the check-in service needs
type CheckinStore interface {
	Create(ctx context.Context, checkin *models.Checkin, notBefore time.Time) (bool, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Checkin, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Checkin, error)
}

// CheckinService handles check-in business logic
type CheckinService struct {
	checkins CheckinStore
	now      func() time.Time
}

// NewCheckinService creates a new check-in service
func NewCheckinService(checkins CheckinStore) *CheckinService {
	return &CheckinService{
		checkins: checkins,
		now:      time.Now,
	}
}

// Create records a new check-in with a server-assigned timestamp. Fails with
// ErrRateLimited when the user already checked in inside the cooldown window.
// Location and device info are stored verbatim as opaque telemetry.
func (s *CheckinService) Create(ctx context.Context, userID, photoURL string, location, deviceInfo *string) (*models.Checkin, error) {
	now := s.now().UTC()
	checkin := &models.Checkin{
		ID:         uuid.New().String(),
		UserID:     userID,
		PhotoURL:   photoURL,
		Location:   location,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
	}

	created, err := s.checkins.Create(ctx, checkin, now.Add(-CooldownWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to create checkin: %w", err)
	}
	if !created {
		return nil, ErrRateLimited
	}

	return checkin, nil
}

// GetOwn retrieves one of the caller's own check-ins by id
func (s *CheckinService) GetOwn(ctx context.Context, userID, checkinID string) (*models.Checkin, error) {
	checkin, err := s.checkins.GetByIDAndUser(ctx, checkinID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCheckinNotFound
		}
		return nil, err
	}
	return checkin, nil
}

// ListOwn retrieves a page of the caller's own check-ins, newest first,
// 30 per page
func (s *CheckinService) ListOwn(ctx context.Context, userID string, page int) ([]*models.Checkin, error) {
	if page < 1 {
		page = 1
	}
	checkins, err := s.checkins.ListByUser(ctx, userID, checkinPageSize, (page-1)*checkinPageSize)
	if err != nil {
		return nil, err
	}
	if checkins == nil {
		checkins = []*models.Checkin{}
	}
	return checkins, nil
}

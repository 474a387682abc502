package services

import (
	"context"
	"errors"
	"testing"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"
)

type fakeFollowStore struct {
	edges []*models.Follow
}

func (f *fakeFollowStore) find(followerID, followingID string) int {
	for i, edge := range f.edges {
		if edge.FollowerID == followerID && edge.FollowingID == followingID {
			return i
		}
	}
	return -1
}

func (f *fakeFollowStore) Create(_ context.Context, follow *models.Follow) (bool, error) {
	if f.find(follow.FollowerID, follow.FollowingID) >= 0 {
		return false, nil
	}
	f.edges = append(f.edges, follow)
	return true, nil
}

func (f *fakeFollowStore) Delete(_ context.Context, followerID, followingID string) (bool, error) {
	i := f.find(followerID, followingID)
	if i < 0 {
		return false, nil
	}
	f.edges = append(f.edges[:i], f.edges[i+1:]...)
	return true, nil
}

func (f *fakeFollowStore) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	return f.find(followerID, followingID) >= 0, nil
}

func (f *fakeFollowStore) CountFollowing(_ context.Context, userID string) (int, error) {
	count := 0
	for _, edge := range f.edges {
		if edge.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeFollowStore) CountFollowers(_ context.Context, userID string) (int, error) {
	count := 0
	for _, edge := range f.edges {
		if edge.FollowingID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeFollowStore) ListFollowing(_ context.Context, userID string) ([]*repository.FollowEntry, error) {
	var entries []*repository.FollowEntry
	for _, edge := range f.edges {
		if edge.FollowerID == userID {
			entries = append(entries, &repository.FollowEntry{UserID: edge.FollowingID, FollowedAt: edge.CreatedAt})
		}
	}
	return entries, nil
}

func (f *fakeFollowStore) ListFollowers(_ context.Context, userID string) ([]*repository.FollowEntry, error) {
	var entries []*repository.FollowEntry
	for _, edge := range f.edges {
		if edge.FollowingID == userID {
			entries = append(entries, &repository.FollowEntry{UserID: edge.FollowerID, FollowedAt: edge.CreatedAt})
		}
	}
	return entries, nil
}

func TestFollowRejectsSelf(t *testing.T) {
	store := &fakeFollowStore{}
	svc := NewFollowService(store)

	err := svc.Follow(context.Background(), "u1", "u1")
	if !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("got %v, want ErrSelfFollow", err)
	}
	if len(store.edges) != 0 {
		t.Error("self-follow reached storage")
	}
}

func TestFollowDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	store := &fakeFollowStore{}
	svc := NewFollowService(store)

	if err := svc.Follow(ctx, "u1", "u2"); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if err := svc.Follow(ctx, "u1", "u2"); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("duplicate follow: got %v, want ErrAlreadyFollowing", err)
	}
	if len(store.edges) != 1 {
		t.Errorf("edges = %d, want 1", len(store.edges))
	}

	// The reverse direction is a distinct edge.
	if err := svc.Follow(ctx, "u2", "u1"); err != nil {
		t.Fatalf("reverse follow: %v", err)
	}
}

func TestUnfollowMissingEdge(t *testing.T) {
	svc := NewFollowService(&fakeFollowStore{})

	err := svc.Unfollow(context.Background(), "u1", "u2")
	if !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("got %v, want ErrNotFollowing", err)
	}
}

func TestFollowStatus(t *testing.T) {
	ctx := context.Background()
	store := &fakeFollowStore{}
	svc := NewFollowService(store)

	if err := svc.Follow(ctx, "u1", "v"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Follow(ctx, "v", "u1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Follow(ctx, "w", "v"); err != nil {
		t.Fatal(err)
	}

	status, err := svc.Status(ctx, "u1", "v")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.IsFollowing || !status.IsFollowedBy {
		t.Errorf("status = %+v, want mutual", status)
	}
	if status.FollowersCount != 2 {
		t.Errorf("followersCount = %d, want 2", status.FollowersCount)
	}
	if status.FollowingCount != 1 {
		t.Errorf("followingCount = %d, want 1", status.FollowingCount)
	}
}

func TestFollowListFallbackNames(t *testing.T) {
	ctx := context.Background()
	store := &fakeFollowStore{}
	svc := NewFollowService(store)

	if err := svc.Follow(ctx, "u1", "123456789abc"); err != nil {
		t.Fatal(err)
	}

	list, err := svc.ListFollowing(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list len = %d, want 1", len(list))
	}
	if list[0].Username != "user_12345678" {
		t.Errorf("username = %q", list[0].Username)
	}
	if list[0].DisplayName != "User 12345678" {
		t.Errorf("displayName = %q", list[0].DisplayName)
	}
}

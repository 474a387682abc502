package services

import (
	"context"
	"errors"
	"testing"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"
)

type fakeReactionStore struct {
	reactions []*models.Reaction
}

func (f *fakeReactionStore) Create(_ context.Context, reaction *models.Reaction) error {
	for _, existing := range f.reactions {
		if existing.UserID == reaction.UserID &&
			existing.CheckinID == reaction.CheckinID &&
			existing.Type == reaction.Type {
			return nil // conflict, do nothing
		}
	}
	f.reactions = append(f.reactions, reaction)
	return nil
}

func (f *fakeReactionStore) DeleteType(_ context.Context, userID, checkinID string, reactionType models.ReactionType) error {
	kept := f.reactions[:0]
	for _, r := range f.reactions {
		if r.UserID == userID && r.CheckinID == checkinID && r.Type == reactionType {
			continue
		}
		kept = append(kept, r)
	}
	f.reactions = kept
	return nil
}

func (f *fakeReactionStore) DeleteAll(_ context.Context, userID, checkinID string) error {
	kept := f.reactions[:0]
	for _, r := range f.reactions {
		if r.UserID == userID && r.CheckinID == checkinID {
			continue
		}
		kept = append(kept, r)
	}
	f.reactions = kept
	return nil
}

func (f *fakeReactionStore) AggregateForCheckin(_ context.Context, checkinID, requesterID string) ([]models.ReactionAggregate, error) {
	byType := make(map[models.ReactionType]*models.ReactionAggregate)
	for _, r := range f.reactions {
		if r.CheckinID != checkinID {
			continue
		}
		agg, ok := byType[r.Type]
		if !ok {
			agg = &models.ReactionAggregate{Type: r.Type}
			byType[r.Type] = agg
		}
		agg.Count++
		if r.UserID == requesterID {
			agg.UserReacted = true
		}
	}
	var out []models.ReactionAggregate
	for _, t := range models.ReactionTypes {
		if agg, ok := byType[t]; ok {
			out = append(out, *agg)
		}
	}
	return out, nil
}

func (f *fakeReactionStore) TypesForUser(_ context.Context, userID, checkinID string) ([]models.ReactionType, error) {
	var types []models.ReactionType
	for _, r := range f.reactions {
		if r.UserID == userID && r.CheckinID == checkinID {
			types = append(types, r.Type)
		}
	}
	return types, nil
}

func (f *fakeReactionStore) ListByUser(_ context.Context, userID string) ([]*repository.UserReactionRow, error) {
	var rows []*repository.UserReactionRow
	for _, r := range f.reactions {
		if r.UserID == userID {
			rows = append(rows, &repository.UserReactionRow{Reaction: *r})
		}
	}
	return rows, nil
}

func TestReactRejectsInvalidType(t *testing.T) {
	svc := NewReactionService(&fakeReactionStore{})

	err := svc.React(context.Background(), "u1", "c1", models.ReactionType("angry"))
	if !errors.Is(err, ErrInvalidReactionType) {
		t.Fatalf("got %v, want ErrInvalidReactionType", err)
	}
}

func TestReactIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &fakeReactionStore{}
	svc := NewReactionService(store)

	if err := svc.React(ctx, "u1", "c1", models.ReactionHeart); err != nil {
		t.Fatalf("first react: %v", err)
	}
	if err := svc.React(ctx, "u1", "c1", models.ReactionHeart); err != nil {
		t.Fatalf("second react should be a no-op success: %v", err)
	}
	if len(store.reactions) != 1 {
		t.Errorf("reaction rows = %d, want 1", len(store.reactions))
	}
}

func TestUserMayHoldOneReactionOfEachType(t *testing.T) {
	ctx := context.Background()
	store := &fakeReactionStore{}
	svc := NewReactionService(store)

	for _, reactionType := range models.ReactionTypes {
		if err := svc.React(ctx, "u1", "c1", reactionType); err != nil {
			t.Fatalf("react %s: %v", reactionType, err)
		}
	}
	if len(store.reactions) != 3 {
		t.Errorf("reaction rows = %d, want 3", len(store.reactions))
	}
}

func TestUnreactAbsentReactionSucceeds(t *testing.T) {
	ctx := context.Background()
	store := &fakeReactionStore{}
	svc := NewReactionService(store)

	heart := models.ReactionHeart
	if err := svc.Unreact(ctx, "u1", "c1", &heart); err != nil {
		t.Fatalf("unreact absent: %v", err)
	}
	if len(store.reactions) != 0 {
		t.Errorf("reaction rows = %d, want 0", len(store.reactions))
	}
}

func TestUnreactWithoutTypeClearsAll(t *testing.T) {
	ctx := context.Background()
	store := &fakeReactionStore{}
	svc := NewReactionService(store)

	for _, reactionType := range models.ReactionTypes {
		if err := svc.React(ctx, "u1", "c1", reactionType); err != nil {
			t.Fatalf("react: %v", err)
		}
	}
	if err := svc.React(ctx, "u2", "c1", models.ReactionWow); err != nil {
		t.Fatalf("react: %v", err)
	}

	if err := svc.Unreact(ctx, "u1", "c1", nil); err != nil {
		t.Fatalf("bulk unreact: %v", err)
	}

	if len(store.reactions) != 1 || store.reactions[0].UserID != "u2" {
		t.Errorf("remaining reactions = %+v, want only u2's", store.reactions)
	}
}

func TestGetForCheckinAggregates(t *testing.T) {
	ctx := context.Background()
	store := &fakeReactionStore{}
	svc := NewReactionService(store)

	// A and B react wow; A also reacts heart.
	if err := svc.React(ctx, "a", "c1", models.ReactionWow); err != nil {
		t.Fatal(err)
	}
	if err := svc.React(ctx, "b", "c1", models.ReactionWow); err != nil {
		t.Fatal(err)
	}
	if err := svc.React(ctx, "a", "c1", models.ReactionHeart); err != nil {
		t.Fatal(err)
	}

	summary, err := svc.GetForCheckin(ctx, "c1", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	byType := make(map[models.ReactionType]models.ReactionAggregate)
	for _, agg := range summary.Reactions {
		byType[agg.Type] = agg
	}
	wow := byType[models.ReactionWow]
	if wow.Count != 2 || !wow.UserReacted {
		t.Errorf("wow = %+v, want count 2 userReacted true", wow)
	}
	heart := byType[models.ReactionHeart]
	if heart.Count != 1 || !heart.UserReacted {
		t.Errorf("heart = %+v, want count 1 userReacted true", heart)
	}

	ownTypes := make(map[models.ReactionType]bool)
	for _, reactionType := range summary.UserReactions {
		ownTypes[reactionType] = true
	}
	if len(ownTypes) != 2 || !ownTypes[models.ReactionWow] || !ownTypes[models.ReactionHeart] {
		t.Errorf("userReactions = %v, want wow and heart", summary.UserReactions)
	}

	// Requester b did not react heart.
	summaryB, err := svc.GetForCheckin(ctx, "c1", "b")
	if err != nil {
		t.Fatal(err)
	}
	for _, agg := range summaryB.Reactions {
		if agg.Type == models.ReactionHeart && agg.UserReacted {
			t.Error("b should not be marked as heart reactor")
		}
	}
}

func TestGetForCheckinEmptyHasNoNilSlices(t *testing.T) {
	svc := NewReactionService(&fakeReactionStore{})

	summary, err := svc.GetForCheckin(context.Background(), "c1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if summary.Reactions == nil || summary.UserReactions == nil {
		t.Error("empty summary has nil slices")
	}
}

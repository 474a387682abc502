package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daily-checkin-backend/internal/models"
	"daily-checkin-backend/internal/repository"
	"daily-checkin-backend/internal/services"
)

type stubReactionStore struct {
	rows []*repository.UserReactionRow
}

func (s *stubReactionStore) Create(context.Context, *models.Reaction) error { return nil }
func (s *stubReactionStore) DeleteType(context.Context, string, string, models.ReactionType) error {
	return nil
}
func (s *stubReactionStore) DeleteAll(context.Context, string, string) error { return nil }
func (s *stubReactionStore) AggregateForCheckin(context.Context, string, string) ([]models.ReactionAggregate, error) {
	return nil, nil
}
func (s *stubReactionStore) TypesForUser(context.Context, string, string) ([]models.ReactionType, error) {
	return nil, nil
}
func (s *stubReactionStore) ListByUser(context.Context, string) ([]*repository.UserReactionRow, error) {
	return s.rows, nil
}

func TestAddReactionValidation(t *testing.T) {
	h := NewReactionHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing checkinId", `{"reactionType":"heart"}`},
		{"missing reactionType", `{"checkinId":"c1"}`},
		{"unknown type", `{"checkinId":"c1","reactionType":"angry"}`},
		{"invalid json", `{"checkinId":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Add(rec, authedRequest(http.MethodPost, "/reactions", tc.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRemoveReactionRequiresCheckinID(t *testing.T) {
	h := NewReactionHandler(nil)

	rec := httptest.NewRecorder()
	h.Remove(rec, authedRequest(http.MethodDelete, "/reactions", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetReactionsRequiresOneParam(t *testing.T) {
	h := NewReactionHandler(nil)

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/reactions", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListReactionsByUserPayloadShape(t *testing.T) {
	reacted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &stubReactionStore{rows: []*repository.UserReactionRow{{
		Reaction: models.Reaction{
			ID:        "r1",
			UserID:    "u2",
			CheckinID: "c1",
			Type:      models.ReactionHeart,
			CreatedAt: reacted,
		},
		PhotoURL:         "https://x/1.jpg",
		CheckinCreatedAt: reacted.Add(-time.Hour),
	}}}
	h := NewReactionHandler(services.NewReactionService(store))

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/reactions?userId=u2", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Reactions []map[string]interface{} `json:"reactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Reactions) != 1 {
		t.Fatalf("reactions = %d, want 1", len(payload.Reactions))
	}

	entry := payload.Reactions[0]
	for _, key := range []string{"id", "userId", "checkinId", "type", "createdAt", "photoUrl", "checkinCreatedAt"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("payload missing key %q: %v", key, entry)
		}
	}
	if _, ok := entry["Reaction"]; ok {
		t.Error("payload leaks the nested storage row")
	}
	if entry["photoUrl"] != "https://x/1.jpg" || entry["type"] != "heart" {
		t.Errorf("entry = %v", entry)
	}
}

package models

import "time"

// ReactionType is the closed set of reactions a user can place on a check-in.
type ReactionType string

const (
	ReactionHaha  ReactionType = "haha"
	ReactionHeart ReactionType = "heart"
	ReactionWow   ReactionType = "wow"
)

// ReactionTypes lists every valid reaction type in display order.
var ReactionTypes = []ReactionType{ReactionHaha, ReactionHeart, ReactionWow}

// Valid reports whether t is one of the known reaction types.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionHaha, ReactionHeart, ReactionWow:
		return true
	}
	return false
}

// Profile represents a user's public profile, provisioned lazily on first use
type Profile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	DisplayName   *string   `json:"displayName,omitempty"`
	BackgroundURL *string   `json:"backgroundUrl,omitempty"`
	PushToken     *string   `json:"-"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Checkin represents a single timestamped photo capture event
type Checkin struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	PhotoURL   string    `json:"photoUrl"`
	Location   *string   `json:"location,omitempty"`
	DeviceInfo *string   `json:"deviceInfo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Follow represents a directed edge from follower to followee
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Reaction represents one user's typed reaction on a check-in
type Reaction struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	CheckinID string       `json:"checkinId"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ReactionAggregate is the per-type count for one check-in, with a flag
// telling whether the requesting user is among the reactors.
type ReactionAggregate struct {
	Type        ReactionType `json:"type"`
	Count       int          `json:"count"`
	UserReacted bool         `json:"userReacted"`
}

// FeedUser is the owner display info attached to a feed item
type FeedUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// FeedItem is one check-in as seen in a follower's feed
type FeedItem struct {
	ID            string              `json:"id"`
	PhotoURL      string              `json:"photoUrl"`
	Location      *string             `json:"location,omitempty"`
	DeviceInfo    *string             `json:"deviceInfo,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	User          FeedUser            `json:"user"`
	Reactions     []ReactionAggregate `json:"reactions"`
	UserReactions []ReactionType      `json:"userReactions"`
}

// Pagination describes the position of a feed page within the full result set
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

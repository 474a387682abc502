package services

import "errors"

var (
	// ErrRateLimited means the user already checked in inside the cooldown window.
	ErrRateLimited = errors.New("already checked in within the cooldown window")

	// ErrCheckinNotFound means the check-in does not exist or is not owned by the caller.
	ErrCheckinNotFound = errors.New("checkin not found")

	// ErrInvalidReactionType means the reaction type is outside the closed enum.
	ErrInvalidReactionType = errors.New("invalid reaction type")

	// ErrSelfFollow means a user tried to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrAlreadyFollowing means the follow edge already exists.
	ErrAlreadyFollowing = errors.New("already following this user")

	// ErrNotFollowing means the follow edge to remove does not exist.
	ErrNotFollowing = errors.New("follow relationship not found")

	// ErrInvalidUsername means the username fails the length or character rules.
	ErrInvalidUsername = errors.New("username must be at least 2 characters of letters, numbers, and underscores")

	// ErrUsernameTaken means another user already holds the username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrProfileNotFound means no profile row exists for the user.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSearchTooShort means the search query is under the minimum length.
	ErrSearchTooShort = errors.New("username query must be at least 2 characters")
)

package domain

import "errors"

// Sentinel errors surfaced to the API layer. Each maps to exactly one HTTP
// status: absence/ownership failures to 404, state collisions to 409,
// authorization failures to 403, and rule violations to 400.
var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrObjectiveNotFound = errors.New("objective not found")
	ErrGroupNotFound     = errors.New("objective group not found")
	ErrMappingNotFound   = errors.New("mapping not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrSettingsNotFound  = errors.New("user settings not found")

	// ErrAlreadyTracking is returned when a start collides with an existing
	// timer, including the case where two concurrent starts race on the
	// active_activities primary key.
	ErrAlreadyTracking = errors.New("user already has an active activity")
	ErrAlreadyMember   = errors.New("already a member")
	ErrEmailTaken      = errors.New("email is already in use")

	ErrNotRoomAdmin  = errors.New("not authorized")
	ErrNotRoomMember = errors.New("not a member of this room")

	ErrRoomLimit           = errors.New("Room limit reached (100)")
	ErrResolutionTooCoarse = errors.New("user resolution is coarser than room resolution")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
)

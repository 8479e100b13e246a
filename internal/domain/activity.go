package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a user-owned trackable habit.
type Activity struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Emoji      string
	Color      string
	Resolution Resolution
	ArchivedAt *time.Time
	CreatedAt  time.Time
}

// Archived reports whether the activity is soft-deleted.
func (a Activity) Archived() bool {
	return a.ArchivedAt != nil
}

// ActivityLog is one immutable tracked interval. LogDate is the calendar date
// the interval started on; DurationMinutes is never negative.
type ActivityLog struct {
	ID              uuid.UUID
	ActivityID      uuid.UUID
	LogDate         time.Time
	DurationMinutes int
}

// ActiveActivity is the single live timer row for a user.
type ActiveActivity struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
	StartedAt  time.Time
}

// TrackerState is the tagged tracking state for one user, resolved from a
// single query. Tracking=false means Idle and the remaining fields are zero.
type TrackerState struct {
	Tracking   bool
	ActivityID uuid.UUID
	StartedAt  time.Time
}

// DateWindow bounds a log query by calendar date, both ends inclusive.
// A nil bound is open.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

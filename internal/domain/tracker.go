// Package domain defines the business logic for the grindex backend.
package domain

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/observability"
)

// TrackerRepository captures the persistence operations behind the timer
// state machine. Each mutating call is one transaction that also records the
// matching live-status event for the relay.
type TrackerRepository interface {
	// TrackerState resolves the user's tagged tracking state.
	TrackerState(ctx context.Context, userID uuid.UUID) (TrackerState, error)
	// StartTracking verifies activity ownership (ErrActivityNotFound),
	// inserts the active row (ErrAlreadyTracking on the primary-key
	// collision) and records a live=true event.
	StartTracking(ctx context.Context, userID, activityID uuid.UUID, startedAt time.Time) (*ActiveActivity, error)
	// StopTracking deletes the active row if present, writes the log built
	// from it and records a live=false event. A nil log with nil error
	// means the user was idle.
	StopTracking(ctx context.Context, userID uuid.UUID, stoppedAt time.Time) (*ActivityLog, error)
}

// Tracker owns the single-active-timer state machine. A user is either Idle
// or Tracking exactly one activity; the transitions below are the only way
// between the two.
type Tracker struct {
	repo TrackerRepository
	now  func() time.Time
}

// NewTracker constructs a Tracker using the wall clock.
func NewTracker(repo TrackerRepository) *Tracker {
	return &Tracker{repo: repo, now: time.Now}
}

// Active returns the caller's current tracking state.
func (t *Tracker) Active(ctx context.Context, userID uuid.UUID) (TrackerState, error) {
	return t.repo.TrackerState(ctx, userID)
}

// Start transitions Idle -> Tracking. It fails with ErrActivityNotFound when
// the activity does not exist or belongs to someone else, and with
// ErrAlreadyTracking when a timer is already running.
func (t *Tracker) Start(ctx context.Context, userID, activityID uuid.UUID) (*ActiveActivity, error) {
	active, err := t.repo.StartTracking(ctx, userID, activityID, t.now().UTC())
	if err != nil {
		return nil, err
	}
	observability.RecordTrackerStarted()
	return active, nil
}

// Stop transitions Tracking -> Idle and returns the created log. Stopping
// while idle is a no-op, not an error: the result is (nil, nil) and no
// live-status event is emitted.
func (t *Tracker) Stop(ctx context.Context, userID uuid.UUID) (*ActivityLog, error) {
	log, err := t.repo.StopTracking(ctx, userID, t.now().UTC())
	if err != nil {
		return nil, err
	}
	if log != nil {
		observability.RecordTrackerStopped(log.DurationMinutes)
	}
	return log, nil
}

// Switch is stop followed by start, as two transactions. When the start
// fails after the stop committed, the user ends up idle with the stop's log
// already recorded; the start's error is returned as-is.
func (t *Tracker) Switch(ctx context.Context, userID, newActivityID uuid.UUID) (*ActiveActivity, error) {
	if _, err := t.Stop(ctx, userID); err != nil {
		return nil, err
	}
	return t.Start(ctx, userID, newActivityID)
}

// DurationMinutes rounds the elapsed time between start and stop to whole
// minutes, half away from zero. Elapsed time never truncates: 89.5s is 2
// minutes, not 1. Negative windows clamp to zero so a skewed clock cannot
// produce a negative log.
func DurationMinutes(startedAt, stoppedAt time.Time) int {
	elapsed := stoppedAt.Sub(startedAt)
	if elapsed < 0 {
		return 0
	}
	return int(math.Round(elapsed.Seconds() / 60))
}

// LogDate is the calendar date a stopped interval is booked on: the UTC date
// of its start. Normalizing to UTC first keeps the date stable even if the
// storage layer dropped the zone on the way through.
func LogDate(startedAt time.Time) time.Time {
	y, m, d := startedAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildStopLog assembles the log produced by stopping the given active
// timer. Shared between the Postgres repository (which runs it inside the
// stop transaction) and tests.
func BuildStopLog(active ActiveActivity, stoppedAt time.Time) ActivityLog {
	return ActivityLog{
		ID:              uuid.New(),
		ActivityID:      active.ActivityID,
		LogDate:         LogDate(active.StartedAt),
		DurationMinutes: DurationMinutes(active.StartedAt, stoppedAt),
	}
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityRepository captures activity and log persistence.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	ActivitiesByUser(ctx context.Context, userID uuid.UUID) ([]Activity, error)
	// ActivityOwned returns nil when the activity is absent or owned by
	// someone else; the two cases are indistinguishable to the caller.
	ActivityOwned(ctx context.Context, activityID, userID uuid.UUID) (*Activity, error)
	UpdateActivity(ctx context.Context, activity Activity) error
	InsertLog(ctx context.Context, log ActivityLog) error
	LogsByActivity(ctx context.Context, activityID uuid.UUID, window DateWindow) ([]ActivityLog, error)
}

// Activities manages the activity catalog and manual log entry.
type Activities struct {
	repo ActivityRepository
	now  func() time.Time
}

// NewActivities constructs an Activities service.
func NewActivities(repo ActivityRepository) *Activities {
	return &Activities{repo: repo, now: time.Now}
}

// CreateActivityInput carries the caller-provided activity fields.
type CreateActivityInput struct {
	Name       string
	Emoji      string
	Color      string
	Resolution Resolution
}

// ActivityUpdate is a partial update; nil fields are left unchanged.
type ActivityUpdate struct {
	Name       *string
	Emoji      *string
	Color      *string
	Resolution *Resolution
	Archived   *bool
}

// Create adds an activity owned by the user.
func (s *Activities) Create(ctx context.Context, userID uuid.UUID, input CreateActivityInput) (*Activity, error) {
	activity := Activity{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       input.Name,
		Emoji:      input.Emoji,
		Color:      input.Color,
		Resolution: input.Resolution,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// List returns every activity the user owns, archived included.
func (s *Activities) List(ctx context.Context, userID uuid.UUID) ([]Activity, error) {
	return s.repo.ActivitiesByUser(ctx, userID)
}

// Update applies a partial update to an owned activity. Archived toggles
// the soft-delete timestamp.
func (s *Activities) Update(ctx context.Context, activityID, userID uuid.UUID, update ActivityUpdate) (*Activity, error) {
	activity, err := s.repo.ActivityOwned(ctx, activityID, userID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	if update.Name != nil {
		activity.Name = *update.Name
	}
	if update.Emoji != nil {
		activity.Emoji = *update.Emoji
	}
	if update.Color != nil {
		activity.Color = *update.Color
	}
	if update.Resolution != nil {
		activity.Resolution = *update.Resolution
	}
	if update.Archived != nil {
		if *update.Archived {
			archivedAt := s.now().UTC()
			activity.ArchivedAt = &archivedAt
		} else {
			activity.ArchivedAt = nil
		}
	}

	if err := s.repo.UpdateActivity(ctx, *activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Log records a manual entry against an owned activity.
func (s *Activities) Log(ctx context.Context, activityID, userID uuid.UUID, logDate time.Time, durationMinutes int) (*ActivityLog, error) {
	activity, err := s.repo.ActivityOwned(ctx, activityID, userID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	log := ActivityLog{
		ID:              uuid.New(),
		ActivityID:      activityID,
		LogDate:         LogDate(logDate),
		DurationMinutes: durationMinutes,
	}
	if err := s.repo.InsertLog(ctx, log); err != nil {
		return nil, err
	}
	return &log, nil
}

// Logs returns an owned activity's entries within the window.
func (s *Activities) Logs(ctx context.Context, activityID, userID uuid.UUID, window DateWindow) ([]ActivityLog, error) {
	activity, err := s.repo.ActivityOwned(ctx, activityID, userID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return s.repo.LogsByActivity(ctx, activityID, window)
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ObjectiveRepository captures objective and objective-group persistence.
type ObjectiveRepository interface {
	CreateObjective(ctx context.Context, objective Objective) error
	ObjectivesByRoom(ctx context.Context, roomID uuid.UUID) ([]Objective, error)
	ObjectiveByID(ctx context.Context, objectiveID uuid.UUID) (*Objective, error)
	UpdateObjective(ctx context.Context, objective Objective) error
	DeleteObjective(ctx context.Context, objectiveID uuid.UUID) error

	CreateGroup(ctx context.Context, group ObjectiveGroup) error
	GroupsByRoom(ctx context.Context, roomID uuid.UUID) ([]ObjectiveGroup, error)
	GroupByID(ctx context.Context, groupID uuid.UUID) (*ObjectiveGroup, error)
	UpdateGroup(ctx context.Context, group ObjectiveGroup) error
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error
}

// Objectives manages room objectives and their groups. Admin authorization
// happens at the API layer via Rooms.VerifyAdmin before any mutation lands
// here.
type Objectives struct {
	repo ObjectiveRepository
	now  func() time.Time
}

// NewObjectives constructs an Objectives service.
func NewObjectives(repo ObjectiveRepository) *Objectives {
	return &Objectives{repo: repo, now: time.Now}
}

// CreateObjectiveInput carries the caller-provided objective fields.
type CreateObjectiveInput struct {
	Name          string
	Emoji         string
	Color         string
	TargetMinutes int
	Metric        string
	GroupID       *uuid.UUID
}

// ObjectiveUpdate is a partial update; nil fields are left unchanged.
// Archived toggles archived_at between now and null.
type ObjectiveUpdate struct {
	Name          *string
	Emoji         *string
	Color         *string
	TargetMinutes *int
	Metric        *string
	GroupID       *uuid.UUID
	Archived      *bool
}

// Create adds an objective to the room.
func (s *Objectives) Create(ctx context.Context, roomID uuid.UUID, input CreateObjectiveInput) (*Objective, error) {
	metric := input.Metric
	if metric == "" {
		metric = "minutes"
	}
	objective := Objective{
		ID:            uuid.New(),
		RoomID:        roomID,
		GroupID:       input.GroupID,
		Name:          input.Name,
		Emoji:         input.Emoji,
		Color:         input.Color,
		TargetMinutes: input.TargetMinutes,
		Metric:        metric,
	}
	if err := s.repo.CreateObjective(ctx, objective); err != nil {
		return nil, err
	}
	return &objective, nil
}

// List returns all objectives in the room, archived included.
func (s *Objectives) List(ctx context.Context, roomID uuid.UUID) ([]Objective, error) {
	return s.repo.ObjectivesByRoom(ctx, roomID)
}

// Update applies a partial update to the objective.
func (s *Objectives) Update(ctx context.Context, objectiveID uuid.UUID, update ObjectiveUpdate) (*Objective, error) {
	objective, err := s.repo.ObjectiveByID(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	if objective == nil {
		return nil, ErrObjectiveNotFound
	}

	if update.Name != nil {
		objective.Name = *update.Name
	}
	if update.Emoji != nil {
		objective.Emoji = *update.Emoji
	}
	if update.Color != nil {
		objective.Color = *update.Color
	}
	if update.TargetMinutes != nil {
		objective.TargetMinutes = *update.TargetMinutes
	}
	if update.Metric != nil {
		objective.Metric = *update.Metric
	}
	if update.GroupID != nil {
		objective.GroupID = update.GroupID
	}
	if update.Archived != nil {
		if *update.Archived {
			archivedAt := s.now().UTC()
			objective.ArchivedAt = &archivedAt
		} else {
			objective.ArchivedAt = nil
		}
	}

	if err := s.repo.UpdateObjective(ctx, *objective); err != nil {
		return nil, err
	}
	return objective, nil
}

// Delete removes the objective.
func (s *Objectives) Delete(ctx context.Context, objectiveID uuid.UUID) error {
	objective, err := s.repo.ObjectiveByID(ctx, objectiveID)
	if err != nil {
		return err
	}
	if objective == nil {
		return ErrObjectiveNotFound
	}
	return s.repo.DeleteObjective(ctx, objectiveID)
}

// CreateGroup adds an objective group to the room.
func (s *Objectives) CreateGroup(ctx context.Context, roomID uuid.UUID, name string) (*ObjectiveGroup, error) {
	group := ObjectiveGroup{ID: uuid.New(), RoomID: roomID, Name: name}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns all objective groups in the room.
func (s *Objectives) ListGroups(ctx context.Context, roomID uuid.UUID) ([]ObjectiveGroup, error) {
	return s.repo.GroupsByRoom(ctx, roomID)
}

// RenameGroup updates the group's name.
func (s *Objectives) RenameGroup(ctx context.Context, groupID uuid.UUID, name string) (*ObjectiveGroup, error) {
	group, err := s.repo.GroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	group.Name = name
	if err := s.repo.UpdateGroup(ctx, *group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group; its objectives fall back to ungrouped.
func (s *Objectives) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	group, err := s.repo.GroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	return s.repo.DeleteGroup(ctx, groupID)
}

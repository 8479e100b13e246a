package domain

import (
	"context"

	"github.com/google/uuid"
)

// MappingRepository captures mapping persistence. Upsert keys on the
// (user, room, activity, objective) tuple and overwrites the weight in
// place.
type MappingRepository interface {
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	UpsertMapping(ctx context.Context, mapping Mapping) (*Mapping, error)
	// DeleteMapping returns ErrMappingNotFound when no row matches.
	DeleteMapping(ctx context.Context, roomID, userID, activityID, objectiveID uuid.UUID) error
	MappingsForMember(ctx context.Context, roomID, userID uuid.UUID) ([]Mapping, error)
}

// Mappings manages a member's activity-to-objective links within a room.
// Every operation requires membership.
type Mappings struct {
	repo MappingRepository
}

// NewMappings constructs a Mappings service.
func NewMappings(repo MappingRepository) *Mappings {
	return &Mappings{repo: repo}
}

func (s *Mappings) requireMember(ctx context.Context, roomID, userID uuid.UUID) error {
	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotRoomMember
	}
	return nil
}

// Upsert creates or updates the mapping for the given tuple at the given
// weight.
func (s *Mappings) Upsert(ctx context.Context, roomID, userID, activityID, objectiveID uuid.UUID, weight float64) (*Mapping, error) {
	if err := s.requireMember(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.repo.UpsertMapping(ctx, Mapping{
		ID:          uuid.New(),
		UserID:      userID,
		RoomID:      roomID,
		ActivityID:  activityID,
		ObjectiveID: objectiveID,
		Weight:      weight,
	})
}

// Delete removes the mapping for the given tuple.
func (s *Mappings) Delete(ctx context.Context, roomID, userID, activityID, objectiveID uuid.UUID) error {
	if err := s.requireMember(ctx, roomID, userID); err != nil {
		return err
	}
	return s.repo.DeleteMapping(ctx, roomID, userID, activityID, objectiveID)
}

// List returns the caller's mappings in the room.
func (s *Mappings) List(ctx context.Context, roomID, userID uuid.UUID) ([]Mapping, error) {
	if err := s.requireMember(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.repo.MappingsForMember(ctx, roomID, userID)
}

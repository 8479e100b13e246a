package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RoomRepository captures room and membership persistence. CreateRoom
// inserts the room together with the admin's membership in one transaction.
type RoomRepository interface {
	Room(ctx context.Context, roomID uuid.UUID) (*Room, error)
	RoomsByMember(ctx context.Context, userID uuid.UUID) ([]Room, error)
	CountRoomsByAdmin(ctx context.Context, adminID uuid.UUID) (int, error)
	CreateRoom(ctx context.Context, room Room) error
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	// AddMember returns ErrAlreadyMember on the composite-key collision.
	AddMember(ctx context.Context, member RoomMember) error
	MemberResolution(ctx context.Context, userID uuid.UUID) (Resolution, error)
}

// Rooms handles room lifecycle and the access-control rules around it.
type Rooms struct {
	repo RoomRepository
	now  func() time.Time
}

// NewRooms constructs a Rooms service.
func NewRooms(repo RoomRepository) *Rooms {
	return &Rooms{repo: repo, now: time.Now}
}

// CreateRoomInput carries the caller-provided room fields.
type CreateRoomInput struct {
	Name       string
	Resolution Resolution
}

// Create makes a room with the caller as admin and first member. An admin
// may own at most MaxRoomsPerAdmin rooms; the next create fails with
// ErrRoomLimit.
func (s *Rooms) Create(ctx context.Context, adminID uuid.UUID, input CreateRoomInput) (*Room, error) {
	count, err := s.repo.CountRoomsByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if count >= MaxRoomsPerAdmin {
		return nil, ErrRoomLimit
	}

	room := Room{
		ID:         uuid.New(),
		AdminID:    adminID,
		Name:       input.Name,
		Resolution: input.Resolution,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns the rooms the user is a member of.
func (s *Rooms) List(ctx context.Context, userID uuid.UUID) ([]Room, error) {
	return s.repo.RoomsByMember(ctx, userID)
}

// VerifyAdmin returns the room when the user administers it. It gates every
// objective and group mutation.
func (s *Rooms) VerifyAdmin(ctx context.Context, roomID, userID uuid.UUID) (*Room, error) {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.AdminID != userID {
		return nil, ErrNotRoomAdmin
	}
	return room, nil
}

// VerifyMember returns the room when the user belongs to it. It gates the
// member-only room reads.
func (s *Rooms) VerifyMember(ctx context.Context, roomID, userID uuid.UUID) (*Room, error) {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotRoomMember
	}
	return room, nil
}

// Join adds the user to the room. It fails when the room is absent, the user
// is already a member, or the user's personal resolution is strictly coarser
// than the room's (day < week < month < year).
func (s *Rooms) Join(ctx context.Context, roomID, userID uuid.UUID) (*RoomMember, error) {
	room, err := s.repo.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	member, err := s.repo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}

	resolution, err := s.repo.MemberResolution(ctx, userID)
	if err != nil {
		return nil, err
	}
	if resolution.Rank() > room.Resolution.Rank() {
		return nil, ErrResolutionTooCoarse
	}

	row := RoomMember{RoomID: roomID, UserID: userID, JoinedAt: s.now().UTC()}
	if err := s.repo.AddMember(ctx, row); err != nil {
		return nil, err
	}
	return &row, nil
}

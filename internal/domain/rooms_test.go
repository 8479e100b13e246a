package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubRoomRepo struct {
	rooms       map[uuid.UUID]Room
	adminCount  int
	members     map[uuid.UUID]map[uuid.UUID]bool // room -> user
	resolutions map[uuid.UUID]Resolution
	created     []Room
}

func newStubRoomRepo() *stubRoomRepo {
	return &stubRoomRepo{
		rooms:       make(map[uuid.UUID]Room),
		members:     make(map[uuid.UUID]map[uuid.UUID]bool),
		resolutions: make(map[uuid.UUID]Resolution),
	}
}

func (s *stubRoomRepo) Room(_ context.Context, roomID uuid.UUID) (*Room, error) {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (s *stubRoomRepo) RoomsByMember(context.Context, uuid.UUID) ([]Room, error) {
	return nil, nil
}

func (s *stubRoomRepo) CountRoomsByAdmin(context.Context, uuid.UUID) (int, error) {
	return s.adminCount, nil
}

func (s *stubRoomRepo) CreateRoom(_ context.Context, room Room) error {
	s.rooms[room.ID] = room
	s.created = append(s.created, room)
	return nil
}

func (s *stubRoomRepo) IsMember(_ context.Context, roomID, userID uuid.UUID) (bool, error) {
	return s.members[roomID][userID], nil
}

func (s *stubRoomRepo) AddMember(_ context.Context, member RoomMember) error {
	if s.members[member.RoomID] == nil {
		s.members[member.RoomID] = make(map[uuid.UUID]bool)
	}
	if s.members[member.RoomID][member.UserID] {
		return ErrAlreadyMember
	}
	s.members[member.RoomID][member.UserID] = true
	return nil
}

func (s *stubRoomRepo) MemberResolution(_ context.Context, userID uuid.UUID) (Resolution, error) {
	if r, ok := s.resolutions[userID]; ok {
		return r, nil
	}
	return ResolutionDay, nil
}

func (s *stubRoomRepo) addRoom(resolution Resolution) Room {
	room := Room{ID: uuid.New(), AdminID: uuid.New(), Resolution: resolution, CreatedAt: time.Now()}
	s.rooms[room.ID] = room
	return room
}

func TestCreateRoomAtCap(t *testing.T) {
	repo := newStubRoomRepo()
	repo.adminCount = MaxRoomsPerAdmin

	_, err := NewRooms(repo).Create(context.Background(), uuid.New(), CreateRoomInput{
		Name:       "one too many",
		Resolution: ResolutionDay,
	})
	require.ErrorIs(t, err, ErrRoomLimit)
	require.EqualError(t, err, "Room limit reached (100)")
	require.Empty(t, repo.created)
}

func TestCreateRoomUnderCap(t *testing.T) {
	repo := newStubRoomRepo()
	repo.adminCount = MaxRoomsPerAdmin - 1
	adminID := uuid.New()

	room, err := NewRooms(repo).Create(context.Background(), adminID, CreateRoomInput{
		Name:       "last slot",
		Resolution: ResolutionWeek,
	})
	require.NoError(t, err)
	require.Equal(t, adminID, room.AdminID)
	require.Len(t, repo.created, 1)
}

// Join succeeds exactly when the member's resolution is at least as fine as
// the room's.
func TestJoinResolutionGate(t *testing.T) {
	ordered := []Resolution{ResolutionDay, ResolutionWeek, ResolutionMonth, ResolutionYear}

	for _, userRes := range ordered {
		for _, roomRes := range ordered {
			allowed := userRes.Rank() <= roomRes.Rank()

			repo := newStubRoomRepo()
			room := repo.addRoom(roomRes)
			userID := uuid.New()
			repo.resolutions[userID] = userRes

			_, err := NewRooms(repo).Join(context.Background(), room.ID, userID)
			if allowed {
				require.NoError(t, err, "user %s should join %s room", userRes, roomRes)
				require.True(t, repo.members[room.ID][userID])
			} else {
				require.ErrorIs(t, err, ErrResolutionTooCoarse, "user %s must not join %s room", userRes, roomRes)
			}
		}
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	repo := newStubRoomRepo()
	_, err := NewRooms(repo).Join(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinTwiceConflicts(t *testing.T) {
	repo := newStubRoomRepo()
	room := repo.addRoom(ResolutionYear)
	userID := uuid.New()

	_, err := NewRooms(repo).Join(context.Background(), room.ID, userID)
	require.NoError(t, err)

	_, err = NewRooms(repo).Join(context.Background(), room.ID, userID)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestVerifyAdmin(t *testing.T) {
	repo := newStubRoomRepo()
	room := repo.addRoom(ResolutionDay)
	rooms := NewRooms(repo)

	verified, err := rooms.VerifyAdmin(context.Background(), room.ID, room.AdminID)
	require.NoError(t, err)
	require.Equal(t, room.ID, verified.ID)

	_, err = rooms.VerifyAdmin(context.Background(), room.ID, uuid.New())
	require.ErrorIs(t, err, ErrNotRoomAdmin)

	_, err = rooms.VerifyAdmin(context.Background(), uuid.New(), room.AdminID)
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestVerifyMember(t *testing.T) {
	repo := newStubRoomRepo()
	room := repo.addRoom(ResolutionDay)
	userID := uuid.New()
	repo.members[room.ID] = map[uuid.UUID]bool{userID: true}
	rooms := NewRooms(repo)

	_, err := rooms.VerifyMember(context.Background(), room.ID, userID)
	require.NoError(t, err)

	_, err = rooms.VerifyMember(context.Background(), room.ID, uuid.New())
	require.ErrorIs(t, err, ErrNotRoomMember)
}

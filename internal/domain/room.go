package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxRoomsPerAdmin caps how many rooms one user may administer.
const MaxRoomsPerAdmin = 100

// Room is a shared space with objectives. The creator is its only admin.
type Room struct {
	ID         uuid.UUID
	AdminID    uuid.UUID
	Name       string
	Resolution Resolution
	CreatedAt  time.Time
}

// RoomMember is a membership row; the composite (room, user) key is the
// identity.
type RoomMember struct {
	RoomID   uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time
}

// RoomMemberInfo is a membership row joined with the member's display name,
// as the statistics views need it.
type RoomMemberInfo struct {
	UserID   uuid.UUID
	FullName string
	JoinedAt time.Time
}

// ObjectiveGroup is a room-scoped bucket for objectives.
type ObjectiveGroup struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	Name       string
	ArchivedAt *time.Time
}

// Objective is a room-scoped target that mapped activities contribute to.
type Objective struct {
	ID            uuid.UUID
	RoomID        uuid.UUID
	GroupID       *uuid.UUID
	Name          string
	Emoji         string
	Color         string
	TargetMinutes int
	Metric        string
	ArchivedAt    *time.Time
}

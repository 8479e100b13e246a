package domain

import (
	"time"

	"github.com/google/uuid"
)

// Mapping links one user's activity to one room objective at a contribution
// weight. The (user, room, activity, objective) tuple is unique; writes
// upsert the weight in place.
type Mapping struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RoomID      uuid.UUID
	ActivityID  uuid.UUID
	ObjectiveID uuid.UUID
	Weight      float64
	CreatedAt   time.Time
}

// Reaction is one append-only emoji event between room members.
type Reaction struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Emoji      string
	CreatedAt  time.Time
}

// ReactionCount is an aggregated (receiver, emoji) tally within a room.
type ReactionCount struct {
	ReceiverID uuid.UUID
	Emoji      string
	Count      int
}

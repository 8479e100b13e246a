// Package relay persists live-status transitions and delivers them to the
// external realtime service, best-effort.
package relay

import (
	"time"

	"github.com/google/uuid"
)

// Event is one live-status transition row fetched from the outbox. It is
// written in the same transaction as the tracker state change, so a
// committed transition always has exactly one event.
type Event struct {
	EventID    int64
	UserID     uuid.UUID
	ActivityID uuid.UUID
	Live       bool
	StartedAt  *time.Time
}

// Update is one entry of the JSON array posted to the realtime service.
// RoomID and ObjectiveID are null on the user-scoped entry used for
// personal dashboard sync.
type Update struct {
	UserID      string     `json:"userId"`
	RoomID      *string    `json:"roomId"`
	ObjectiveID *string    `json:"objectiveId"`
	Live        bool       `json:"live"`
	StartTime   *time.Time `json:"startTime"`
}

// RoomObjective is one (room, objective) pair affected by a transition,
// resolved from the user's mappings for the tracked activity.
type RoomObjective struct {
	RoomID      uuid.UUID
	ObjectiveID uuid.UUID
}

// expandEvent fans a transition out into one update per affected mapping
// plus exactly one user-scoped update, so an activity mapped to three
// objectives yields four updates.
func expandEvent(event Event, pairs []RoomObjective) []Update {
	updates := make([]Update, 0, len(pairs)+1)
	for _, pair := range pairs {
		roomID := pair.RoomID.String()
		objectiveID := pair.ObjectiveID.String()
		updates = append(updates, Update{
			UserID:      event.UserID.String(),
			RoomID:      &roomID,
			ObjectiveID: &objectiveID,
			Live:        event.Live,
			StartTime:   event.StartedAt,
		})
	}
	updates = append(updates, Update{
		UserID:    event.UserID.String(),
		Live:      event.Live,
		StartTime: event.StartedAt,
	})
	return updates
}

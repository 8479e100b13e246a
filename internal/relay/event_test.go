package relay

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestExpandEventFansOutPerMappingPlusPersonal(t *testing.T) {
	started := time.Date(2026, time.August, 20, 6, 30, 0, 0, time.UTC)
	event := Event{
		EventID:    1,
		UserID:     uuid.New(),
		ActivityID: uuid.New(),
		Live:       true,
		StartedAt:  &started,
	}
	pairs := []RoomObjective{
		{RoomID: uuid.New(), ObjectiveID: uuid.New()},
		{RoomID: uuid.New(), ObjectiveID: uuid.New()},
		{RoomID: uuid.New(), ObjectiveID: uuid.New()},
	}

	updates := expandEvent(event, pairs)
	require.Len(t, updates, 4)

	for i, pair := range pairs {
		require.Equal(t, event.UserID.String(), updates[i].UserID)
		require.Equal(t, pair.RoomID.String(), *updates[i].RoomID)
		require.Equal(t, pair.ObjectiveID.String(), *updates[i].ObjectiveID)
		require.True(t, updates[i].Live)
		require.Equal(t, started, *updates[i].StartTime)
	}

	personal := updates[3]
	require.Equal(t, event.UserID.String(), personal.UserID)
	require.Nil(t, personal.RoomID)
	require.Nil(t, personal.ObjectiveID)
	require.True(t, personal.Live)
}

// A stop for an unmapped activity still produces the single personal update.
func TestExpandEventNoMappings(t *testing.T) {
	event := Event{EventID: 2, UserID: uuid.New(), ActivityID: uuid.New(), Live: false}

	updates := expandEvent(event, nil)
	require.Len(t, updates, 1)
	require.Nil(t, updates[0].RoomID)
	require.Nil(t, updates[0].ObjectiveID)
	require.False(t, updates[0].Live)
	require.Nil(t, updates[0].StartTime)
}

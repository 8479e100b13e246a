package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubStatsRepo serves canned aggregation inputs.
type stubStatsRepo struct {
	roomExists bool
	activities map[uuid.UUID][]Activity
	minutes    map[uuid.UUID]int
	states     map[uuid.UUID]TrackerState
	members    []RoomMemberInfo
	mappings   map[uuid.UUID][]Mapping // keyed by user id
	rooms      []Room
	memberIDs  []uuid.UUID
	allMaps    []Mapping
	active     []ActiveActivity
}

func (s *stubStatsRepo) RoomExists(context.Context, uuid.UUID) (bool, error) {
	return s.roomExists, nil
}

func (s *stubStatsRepo) ActivitiesByUser(_ context.Context, userID uuid.UUID) ([]Activity, error) {
	return s.activities[userID], nil
}

func (s *stubStatsRepo) MinutesByActivity(_ context.Context, activityIDs []uuid.UUID, _ DateWindow) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, id := range activityIDs {
		if m, ok := s.minutes[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (s *stubStatsRepo) TrackerState(_ context.Context, userID uuid.UUID) (TrackerState, error) {
	return s.states[userID], nil
}

func (s *stubStatsRepo) MembersWithNames(context.Context, uuid.UUID) ([]RoomMemberInfo, error) {
	return s.members, nil
}

func (s *stubStatsRepo) MappingsForMember(_ context.Context, _ uuid.UUID, userID uuid.UUID) ([]Mapping, error) {
	return s.mappings[userID], nil
}

func (s *stubStatsRepo) RoomsByMember(context.Context, uuid.UUID) ([]Room, error) {
	return s.rooms, nil
}

func (s *stubStatsRepo) MemberIDsByRooms(context.Context, []uuid.UUID) ([]uuid.UUID, error) {
	return s.memberIDs, nil
}

func (s *stubStatsRepo) MappingsByRooms(context.Context, []uuid.UUID) ([]Mapping, error) {
	return s.allMaps, nil
}

func (s *stubStatsRepo) ActiveForUsers(context.Context, []uuid.UUID) ([]ActiveActivity, error) {
	return s.active, nil
}

func TestPersonalStatsOmitsZeroAndIdle(t *testing.T) {
	userID := uuid.New()
	logged := Activity{ID: uuid.New(), UserID: userID, Name: "reading", Color: "#111111"}
	idle := Activity{ID: uuid.New(), UserID: userID, Name: "chess", Color: "#222222"}
	live := Activity{ID: uuid.New(), UserID: userID, Name: "running", Color: "#333333"}

	started := time.Date(2026, time.June, 1, 7, 0, 0, 0, time.UTC)
	repo := &stubStatsRepo{
		activities: map[uuid.UUID][]Activity{userID: {logged, idle, live}},
		minutes:    map[uuid.UUID]int{logged.ID: 120},
		states: map[uuid.UUID]TrackerState{
			userID: {Tracking: true, ActivityID: live.ID, StartedAt: started},
		},
	}

	stats, err := NewStats(repo).PersonalStats(context.Background(), userID, DateWindow{})
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.Equal(t, "reading", stats[0].Name)
	require.Equal(t, 120, stats[0].Minutes)
	require.False(t, stats[0].Live)

	require.Equal(t, "running", stats[1].Name)
	require.Equal(t, 0, stats[1].Minutes)
	require.True(t, stats[1].Live)
	require.Equal(t, started, *stats[1].StartedAt)
}

func TestParticipantStatsAppliesWeights(t *testing.T) {
	roomID := uuid.New()
	userID := uuid.New()
	objectiveID := uuid.New()
	actA, actB := uuid.New(), uuid.New()

	repo := &stubStatsRepo{
		roomExists: true,
		members:    []RoomMemberInfo{{UserID: userID, FullName: "Alex"}},
		mappings: map[uuid.UUID][]Mapping{
			userID: {
				{UserID: userID, RoomID: roomID, ActivityID: actA, ObjectiveID: objectiveID, Weight: 0.5},
				{UserID: userID, RoomID: roomID, ActivityID: actB, ObjectiveID: objectiveID, Weight: 0.5},
			},
		},
		minutes: map[uuid.UUID]int{actA: 30, actB: 20},
		states:  map[uuid.UUID]TrackerState{},
	}

	stats, err := NewStats(repo).ParticipantStats(context.Background(), roomID, DateWindow{})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Len(t, stats[0].Objectives, 2)
	require.InDelta(t, 15.0, stats[0].Objectives[0].Minutes, 1e-9)
	require.InDelta(t, 10.0, stats[0].Objectives[1].Minutes, 1e-9)

	total := stats[0].Objectives[0].Minutes + stats[0].Objectives[1].Minutes
	require.InDelta(t, 25.0, total, 1e-9)
}

func TestParticipantStatsUnknownRoom(t *testing.T) {
	repo := &stubStatsRepo{roomExists: false}
	_, err := NewStats(repo).ParticipantStats(context.Background(), uuid.New(), DateWindow{})
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestBuildLeaderboardSortsDescending(t *testing.T) {
	objectiveID := uuid.New()
	low, mid, high := uuid.New(), uuid.New(), uuid.New()

	stats := []MemberStats{
		{UserID: low, FullName: "low", Objectives: []MemberObjectiveStat{{ObjectiveID: objectiveID, Minutes: 10}}},
		{UserID: high, FullName: "high", Objectives: []MemberObjectiveStat{{ObjectiveID: objectiveID, Minutes: 30}}},
		{UserID: mid, FullName: "mid", Objectives: []MemberObjectiveStat{{ObjectiveID: objectiveID, Minutes: 20}}},
	}

	rankings := BuildLeaderboard(stats)
	require.Len(t, rankings, 1)
	require.Equal(t, objectiveID, rankings[0].ObjectiveID)

	minutes := []float64{}
	for _, entry := range rankings[0].Rankings {
		minutes = append(minutes, entry.Minutes)
	}
	require.Equal(t, []float64{30, 20, 10}, minutes)
	require.Equal(t, []uuid.UUID{high, mid, low}, []uuid.UUID{
		rankings[0].Rankings[0].UserID,
		rankings[0].Rankings[1].UserID,
		rankings[0].Rankings[2].UserID,
	})
}

// Ties keep member discovery order thanks to the stable sort.
func TestBuildLeaderboardStableTies(t *testing.T) {
	objectiveID := uuid.New()
	first, second := uuid.New(), uuid.New()

	stats := []MemberStats{
		{UserID: first, Objectives: []MemberObjectiveStat{{ObjectiveID: objectiveID, Minutes: 20}}},
		{UserID: second, Objectives: []MemberObjectiveStat{{ObjectiveID: objectiveID, Minutes: 20}}},
	}

	rankings := BuildLeaderboard(stats)
	require.Equal(t, first, rankings[0].Rankings[0].UserID)
	require.Equal(t, second, rankings[0].Rankings[1].UserID)
}

func TestLiveStatusMatchesMappedTrackers(t *testing.T) {
	roomID := uuid.New()
	tracking, idle := uuid.New(), uuid.New()
	mapped, unmapped := uuid.New(), uuid.New()
	objectiveID := uuid.New()
	started := time.Date(2026, time.July, 3, 18, 0, 0, 0, time.UTC)

	repo := &stubStatsRepo{
		rooms:     []Room{{ID: roomID}},
		memberIDs: []uuid.UUID{tracking, idle},
		active: []ActiveActivity{
			{UserID: tracking, ActivityID: mapped, StartedAt: started},
			{UserID: idle, ActivityID: unmapped, StartedAt: started},
		},
		allMaps: []Mapping{
			{UserID: tracking, RoomID: roomID, ActivityID: mapped, ObjectiveID: objectiveID},
		},
	}

	status, err := NewStats(repo).LiveStatus(context.Background(), tracking)
	require.NoError(t, err)
	require.Len(t, status, 1)
	require.Len(t, status[roomID], 1)
	require.Equal(t, objectiveID, status[roomID][tracking][0].ObjectiveID)
	require.Equal(t, started, status[roomID][tracking][0].StartedAt)
}

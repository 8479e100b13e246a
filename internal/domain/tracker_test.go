package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubTrackerRepo keeps the active row in memory and records the events the
// real repository would write.
type stubTrackerRepo struct {
	active *ActiveActivity
	owned  map[uuid.UUID]bool
	logs   []ActivityLog
	events []bool
}

func (s *stubTrackerRepo) TrackerState(_ context.Context, userID uuid.UUID) (TrackerState, error) {
	if s.active == nil || s.active.UserID != userID {
		return TrackerState{}, nil
	}
	return TrackerState{Tracking: true, ActivityID: s.active.ActivityID, StartedAt: s.active.StartedAt}, nil
}

func (s *stubTrackerRepo) StartTracking(_ context.Context, userID, activityID uuid.UUID, startedAt time.Time) (*ActiveActivity, error) {
	if !s.owned[activityID] {
		return nil, ErrActivityNotFound
	}
	if s.active != nil && s.active.UserID == userID {
		return nil, ErrAlreadyTracking
	}
	s.active = &ActiveActivity{UserID: userID, ActivityID: activityID, StartedAt: startedAt}
	s.events = append(s.events, true)
	return s.active, nil
}

func (s *stubTrackerRepo) StopTracking(_ context.Context, userID uuid.UUID, stoppedAt time.Time) (*ActivityLog, error) {
	if s.active == nil || s.active.UserID != userID {
		return nil, nil
	}
	log := BuildStopLog(*s.active, stoppedAt)
	s.logs = append(s.logs, log)
	s.active = nil
	s.events = append(s.events, false)
	return &log, nil
}

func newTestTracker(repo *stubTrackerRepo, now time.Time) *Tracker {
	tracker := NewTracker(repo)
	tracker.now = func() time.Time { return now }
	return tracker
}

func TestStartWhileTrackingConflicts(t *testing.T) {
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()
	repo := &stubTrackerRepo{owned: map[uuid.UUID]bool{first: true, second: true}}
	tracker := newTestTracker(repo, time.Now())

	_, err := tracker.Start(context.Background(), userID, first)
	require.NoError(t, err)

	_, err = tracker.Start(context.Background(), userID, second)
	require.ErrorIs(t, err, ErrAlreadyTracking)

	state, err := tracker.Active(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, state.Tracking)
	require.Equal(t, first, state.ActivityID)
}

func TestStartUnownedActivity(t *testing.T) {
	repo := &stubTrackerRepo{owned: map[uuid.UUID]bool{}}
	tracker := newTestTracker(repo, time.Now())

	_, err := tracker.Start(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrActivityNotFound)
	require.Empty(t, repo.events)
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	repo := &stubTrackerRepo{owned: map[uuid.UUID]bool{}}
	tracker := newTestTracker(repo, time.Now())

	log, err := tracker.Stop(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, log)
	require.Empty(t, repo.logs)
	require.Empty(t, repo.events, "idle stop must not emit a live-status event")
}

func TestStopCreatesLogDatedOnStart(t *testing.T) {
	userID := uuid.New()
	activityID := uuid.New()
	start := time.Date(2026, time.March, 1, 23, 50, 0, 0, time.UTC)
	stop := start.Add(25 * time.Minute) // crosses midnight

	repo := &stubTrackerRepo{owned: map[uuid.UUID]bool{activityID: true}}
	tracker := newTestTracker(repo, start)

	_, err := tracker.Start(context.Background(), userID, activityID)
	require.NoError(t, err)

	tracker.now = func() time.Time { return stop }
	log, err := tracker.Stop(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, 25, log.DurationMinutes)
	require.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), log.LogDate)
	require.Equal(t, []bool{true, false}, repo.events)
}

func TestSwitchStopsThenStarts(t *testing.T) {
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()
	start := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)

	repo := &stubTrackerRepo{owned: map[uuid.UUID]bool{first: true, second: true}}
	tracker := newTestTracker(repo, start)

	_, err := tracker.Start(context.Background(), userID, first)
	require.NoError(t, err)

	tracker.now = func() time.Time { return start.Add(10 * time.Minute) }
	active, err := tracker.Switch(context.Background(), userID, second)
	require.NoError(t, err)
	require.Equal(t, second, active.ActivityID)

	require.Len(t, repo.logs, 1)
	require.Equal(t, first, repo.logs[0].ActivityID)
	require.Equal(t, 10, repo.logs[0].DurationMinutes)
	require.Equal(t, []bool{true, false, true}, repo.events)
}

// Switch while idle behaves like a plain start: the stop is a no-op.
func TestSwitchWhileIdle(t *testing.T) {
	userID := uuid.New()
	activityID := uuid.New()
	repo := &stubTrackerRepo{owned: map[uuid.UUID]bool{activityID: true}}
	tracker := newTestTracker(repo, time.Now())

	active, err := tracker.Switch(context.Background(), userID, activityID)
	require.NoError(t, err)
	require.Equal(t, activityID, active.ActivityID)
	require.Empty(t, repo.logs)
	require.Equal(t, []bool{true}, repo.events)
}

func TestDurationMinutesRounding(t *testing.T) {
	start := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"zero", 0, 0},
		{"under half a minute", 29 * time.Second, 0},
		{"half rounds up", 30 * time.Second, 1},
		{"ninety seconds", 90 * time.Second, 2},
		{"just under ninety", 89 * time.Second, 1},
		{"exact hour", time.Hour, 60},
		{"negative clamps", -time.Minute, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DurationMinutes(start, start.Add(tc.elapsed)))
		})
	}
}

// A start coming out of storage without zone info must book on its UTC date,
// not the host zone's.
func TestLogDateTreatsNaiveAsUTC(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2026, time.March, 2, 3, 30, 0, 0, zone) // 2026-03-01 22:30 UTC

	require.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), LogDate(start))
}

func TestBuildStopLog(t *testing.T) {
	start := time.Date(2026, time.May, 5, 8, 0, 0, 0, time.UTC)
	active := ActiveActivity{UserID: uuid.New(), ActivityID: uuid.New(), StartedAt: start}

	log := BuildStopLog(active, start.Add(44*time.Minute+31*time.Second))
	require.Equal(t, active.ActivityID, log.ActivityID)
	require.Equal(t, 45, log.DurationMinutes)
	require.Equal(t, time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC), log.LogDate)
	require.NotEqual(t, uuid.Nil, log.ID)
}

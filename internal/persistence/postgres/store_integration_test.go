//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/KruASe76/grindex/internal/domain"
)

func setupStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool) {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("grindex"),
		postgrescontainer.WithUsername("grindex"),
		postgrescontainer.WithPassword("grindex"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewStore(pool), pool
}

func seedUserWithActivity(t *testing.T, ctx context.Context, store *Store) (uuid.UUID, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	now := time.Now().UTC()
	err := store.CreateUser(ctx, domain.User{
		ID:           userID,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FullName:     "Integration Tester",
		CreatedAt:    now,
	}, domain.UserSettings{
		UserID:     userID,
		Theme:      domain.ThemeLight,
		Resolution: domain.ResolutionDay,
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	activity := domain.Activity{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "deep work",
		Resolution: domain.ResolutionDay,
		CreatedAt:  now,
	}
	require.NoError(t, store.CreateActivity(ctx, activity))
	return userID, activity.ID
}

func TestTrackerLifecycle(t *testing.T) {
	ctx := context.Background()
	store, pool := setupStore(t, ctx)
	userID, activityID := seedUserWithActivity(t, ctx, store)

	start := time.Now().UTC().Add(-90 * time.Second)
	active, err := store.StartTracking(ctx, userID, activityID, start)
	require.NoError(t, err)
	require.Equal(t, activityID, active.ActivityID)

	// Second start collides on the primary key.
	_, err = store.StartTracking(ctx, userID, activityID, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrAlreadyTracking)

	state, err := store.TrackerState(ctx, userID)
	require.NoError(t, err)
	require.True(t, state.Tracking)

	log, err := store.StopTracking(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, 2, log.DurationMinutes)

	// Stop again while idle: no-op, no extra event.
	again, err := store.StopTracking(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	require.Nil(t, again)

	var events int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM live_status_outbox WHERE user_id = $1`, userID).Scan(&events))
	require.Equal(t, 2, events, "one event per real transition")
}

func TestStartUnownedActivityFails(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t, ctx)
	userID, _ := seedUserWithActivity(t, ctx, store)
	otherUser, otherActivity := seedUserWithActivity(t, ctx, store)
	_ = otherUser

	_, err := store.StartTracking(ctx, userID, otherActivity, time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrActivityNotFound)

	var events int
	require.NoError(t, store.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM live_status_outbox WHERE user_id = $1`, userID).Scan(&events))
	require.Zero(t, events, "rolled-back start must not leave an event")
}

func TestDuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t, ctx)

	user := domain.User{
		ID:           uuid.New(),
		Email:        "taken@example.com",
		PasswordHash: "x",
		FullName:     "First",
		CreatedAt:    time.Now().UTC(),
	}
	settings := domain.UserSettings{UserID: user.ID, Theme: domain.ThemeLight, Resolution: domain.ResolutionDay, UpdatedAt: user.CreatedAt}
	require.NoError(t, store.CreateUser(ctx, user, settings))

	dup := user
	dup.ID = uuid.New()
	dupSettings := settings
	dupSettings.UserID = dup.ID
	require.ErrorIs(t, store.CreateUser(ctx, dup, dupSettings), domain.ErrEmailTaken)
}

func TestMappingUpsertOverwritesWeight(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t, ctx)
	userID, activityID := seedUserWithActivity(t, ctx, store)

	room := domain.Room{ID: uuid.New(), AdminID: userID, Name: "study", Resolution: domain.ResolutionDay, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateRoom(ctx, room))

	objective := domain.Objective{ID: uuid.New(), RoomID: room.ID, Name: "focus", Metric: "minutes"}
	require.NoError(t, store.CreateObjective(ctx, objective))

	mapping := domain.Mapping{
		ID:          uuid.New(),
		UserID:      userID,
		RoomID:      room.ID,
		ActivityID:  activityID,
		ObjectiveID: objective.ID,
		Weight:      1.0,
	}
	first, err := store.UpsertMapping(ctx, mapping)
	require.NoError(t, err)

	mapping.ID = uuid.New()
	mapping.Weight = 0.5
	second, err := store.UpsertMapping(ctx, mapping)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "tuple identity survives the upsert")
	require.InDelta(t, 0.5, second.Weight, 1e-9)

	stored, err := store.MappingsForMember(ctx, room.ID, userID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestMinutesByActivityWindow(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t, ctx)
	_, activityID := seedUserWithActivity(t, ctx, store)

	insert := func(day string, minutes int) {
		date, err := time.Parse("2006-01-02", day)
		require.NoError(t, err)
		require.NoError(t, store.InsertLog(ctx, domain.ActivityLog{
			ID:              uuid.New(),
			ActivityID:      activityID,
			LogDate:         date,
			DurationMinutes: minutes,
		}))
	}
	insert("2026-01-01", 10)
	insert("2026-01-02", 20)
	insert("2026-01-03", 30)

	from, _ := time.Parse("2006-01-02", "2026-01-02")
	to, _ := time.Parse("2006-01-02", "2026-01-03")

	totals, err := store.MinutesByActivity(ctx, []uuid.UUID{activityID}, domain.DateWindow{Start: &from, End: &to})
	require.NoError(t, err)
	require.Equal(t, 50, totals[activityID], "window bounds are inclusive")
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

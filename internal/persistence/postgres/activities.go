package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KruASe76/grindex/internal/domain"
)

const activityColumns = `id, user_id, name, emoji, color, resolution, archived_at, created_at`

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Emoji, &a.Color, &a.Resolution, &a.ArchivedAt, &a.CreatedAt)
	return a, err
}

func (s *Store) CreateActivity(ctx context.Context, activity domain.Activity) error {
	const stmt = `INSERT INTO activities (id, user_id, name, emoji, color, resolution, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, stmt,
		activity.ID, activity.UserID, activity.Name, activity.Emoji,
		activity.Color, activity.Resolution, activity.CreatedAt)
	return err
}

func (s *Store) ActivitiesByUser(ctx context.Context, userID uuid.UUID) ([]domain.Activity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ActivityOwned fetches the activity only when the user owns it; absence and
// foreign ownership both come back as nil.
func (s *Store) ActivityOwned(ctx context.Context, activityID, userID uuid.UUID) (*domain.Activity, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1 AND user_id = $2`, activityID, userID)

	a, err := scanActivity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) UpdateActivity(ctx context.Context, activity domain.Activity) error {
	const stmt = `UPDATE activities
        SET name = $2, emoji = $3, color = $4, resolution = $5, archived_at = $6
        WHERE id = $1`

	tag, err := s.pool.Exec(ctx, stmt,
		activity.ID, activity.Name, activity.Emoji, activity.Color,
		activity.Resolution, activity.ArchivedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (s *Store) InsertLog(ctx context.Context, log domain.ActivityLog) error {
	const stmt = `INSERT INTO activity_logs (id, activity_id, log_date, duration_minutes)
        VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, stmt, log.ID, log.ActivityID, log.LogDate, log.DurationMinutes)
	return err
}

func (s *Store) LogsByActivity(ctx context.Context, activityID uuid.UUID, window domain.DateWindow) ([]domain.ActivityLog, error) {
	query := `SELECT id, activity_id, log_date, duration_minutes
        FROM activity_logs WHERE activity_id = $1`
	args := []interface{}{activityID}
	query, args = windowClause(query, args, window)
	query += ` ORDER BY log_date, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.ActivityLog, 0)
	for rows.Next() {
		var log domain.ActivityLog
		if err := rows.Scan(&log.ID, &log.ActivityID, &log.LogDate, &log.DurationMinutes); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// MinutesByActivity sums logged minutes per activity within the window.
func (s *Store) MinutesByActivity(ctx context.Context, activityIDs []uuid.UUID, window domain.DateWindow) (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int)
	if len(activityIDs) == 0 {
		return totals, nil
	}

	query := `SELECT activity_id, COALESCE(SUM(duration_minutes), 0)
        FROM activity_logs WHERE activity_id = ANY($1)`
	args := []interface{}{activityIDs}
	query, args = windowClause(query, args, window)
	query += ` GROUP BY activity_id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var activityID uuid.UUID
		var minutes int
		if err := rows.Scan(&activityID, &minutes); err != nil {
			return nil, err
		}
		totals[activityID] = minutes
	}
	return totals, rows.Err()
}

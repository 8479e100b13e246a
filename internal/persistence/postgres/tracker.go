package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KruASe76/grindex/internal/domain"
)

// TrackerState resolves the tagged tracking state from the single active
// row, if any.
func (s *Store) TrackerState(ctx context.Context, userID uuid.UUID) (domain.TrackerState, error) {
	const query = `SELECT activity_id, started_at FROM active_activities WHERE user_id = $1`

	var state domain.TrackerState
	err := s.pool.QueryRow(ctx, query, userID).Scan(&state.ActivityID, &state.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TrackerState{}, nil
	}
	if err != nil {
		return domain.TrackerState{}, err
	}
	state.Tracking = true
	return state, nil
}

// StartTracking creates the active row and the live=true event in one
// transaction. The primary key on user_id turns a concurrent double-start
// into ErrAlreadyTracking.
func (s *Store) StartTracking(ctx context.Context, userID, activityID uuid.UUID, startedAt time.Time) (*domain.ActiveActivity, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	var owned bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM activities WHERE id = $1 AND user_id = $2)`,
		activityID, userID).Scan(&owned)
	if err != nil {
		return nil, err
	}
	if !owned {
		err = domain.ErrActivityNotFound
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO active_activities (user_id, activity_id, started_at) VALUES ($1, $2, $3)`,
		userID, activityID, startedAt)
	if err != nil {
		if _, unique := uniqueViolation(err); unique {
			err = domain.ErrAlreadyTracking
		}
		return nil, err
	}

	if err = insertLiveStatusEvent(ctx, tx, userID, activityID, true, &startedAt); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.ActiveActivity{UserID: userID, ActivityID: activityID, StartedAt: startedAt}, nil
}

// StopTracking deletes the active row, writes the derived log and records
// the live=false event in one transaction. A user without an active row
// yields (nil, nil).
func (s *Store) StopTracking(ctx context.Context, userID uuid.UUID, stoppedAt time.Time) (*domain.ActivityLog, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	var active domain.ActiveActivity
	err = tx.QueryRow(ctx,
		`SELECT user_id, activity_id, started_at FROM active_activities WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&active.UserID, &active.ActivityID, &active.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		tx.Rollback(ctx)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	log := domain.BuildStopLog(active, stoppedAt)

	_, err = tx.Exec(ctx,
		`INSERT INTO activity_logs (id, activity_id, log_date, duration_minutes) VALUES ($1, $2, $3, $4)`,
		log.ID, log.ActivityID, log.LogDate, log.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM active_activities WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	if err = insertLiveStatusEvent(ctx, tx, userID, active.ActivityID, false, nil); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &log, nil
}

// ActiveForUsers fetches the active rows for a set of users.
func (s *Store) ActiveForUsers(ctx context.Context, userIDs []uuid.UUID) ([]domain.ActiveActivity, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT user_id, activity_id, started_at FROM active_activities WHERE user_id = ANY($1)`,
		userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	active := make([]domain.ActiveActivity, 0)
	for rows.Next() {
		var row domain.ActiveActivity
		if err := rows.Scan(&row.UserID, &row.ActivityID, &row.StartedAt); err != nil {
			return nil, err
		}
		active = append(active, row)
	}
	return active, rows.Err()
}

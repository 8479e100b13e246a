// Package postgres provides pgx-backed persistence for the grindex domain.
// Every mutating method runs as one transaction; invariants that must hold
// under concurrency (single active timer, unique membership, unique email)
// are enforced by database constraints, not application locks.
package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KruASe76/grindex/internal/domain"
)

// Store implements the domain repository interfaces over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// uniqueViolation reports the violated constraint name for 23505 errors.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// insertLiveStatusEvent records a tracker transition for the relay within
// the caller's transaction, so a committed transition always carries its
// event and a rolled-back one never does.
func insertLiveStatusEvent(ctx context.Context, tx pgx.Tx, userID, activityID uuid.UUID, live bool, startedAt *time.Time) error {
	const stmt = `INSERT INTO live_status_outbox (user_id, activity_id, live, started_at)
        VALUES ($1, $2, $3, $4)`
	_, err := tx.Exec(ctx, stmt, userID, activityID, live, startedAt)
	return err
}

// windowClause appends inclusive log_date bounds to a query.
func windowClause(query string, args []interface{}, window domain.DateWindow) (string, []interface{}) {
	if window.Start != nil {
		args = append(args, *window.Start)
		query += ` AND log_date >= $` + strconv.Itoa(len(args))
	}
	if window.End != nil {
		args = append(args, *window.End)
		query += ` AND log_date <= $` + strconv.Itoa(len(args))
	}
	return query, args
}

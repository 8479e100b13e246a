package relay

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Sender delivers one batch of updates to the realtime service.
type Sender interface {
	Send(ctx context.Context, updates []Update) error
}

// Dispatcher drains the live-status outbox and posts updates to the
// realtime service. Delivery is at-most-once: a failed batch is logged,
// counted and marked published anyway, never retried. The tracker's
// transactions only ever see the outbox insert, so delivery can neither
// fail nor delay a committed transition.
type Dispatcher struct {
	pool             *pgxpool.Pool
	sender           Sender
	log              *zap.Logger
	pollInterval     time.Duration
	batchSize        int
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(pool *pgxpool.Pool, sender Sender, log *zap.Logger, pollInterval time.Duration, batchSize int) *Dispatcher {
	return &Dispatcher{
		pool:             pool,
		sender:           sender,
		log:              log,
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if err := d.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.log.Error("relay dispatcher error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the dispatcher has stopped.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	start := time.Now()

	events, err := d.fetchAndClaim(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	updates := make([]Update, 0, len(events)*2)
	for _, event := range events {
		pairs, err := d.affectedMappings(ctx, event)
		if err != nil {
			return err
		}
		updates = append(updates, expandEvent(event, pairs)...)
	}

	if err := d.sender.Send(ctx, updates); err != nil {
		// Best-effort contract: log, count, move on. The events are still
		// marked published below so they are never retried.
		d.log.Warn("live-status delivery failed",
			zap.Int("events", len(events)),
			zap.Int("updates", len(updates)),
			zap.Error(err))
		failedCounter.Add(float64(len(events)))
	} else {
		deliveredCounter.Add(float64(len(events)))
	}

	return d.markPublished(ctx, events)
}

func (d *Dispatcher) fetchAndClaim(ctx context.Context) ([]Event, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const query = `SELECT event_id, user_id, activity_id, live, started_at
        FROM live_status_outbox
        WHERE published_at IS NULL
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, d.batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var event Event
		if err = rows.Scan(&event.EventID, &event.UserID, &event.ActivityID, &event.Live, &event.StartedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
		ids = append(ids, event.EventID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		tx.Rollback(ctx)
		return nil, nil
	}

	if _, err = tx.Exec(ctx, `UPDATE live_status_outbox SET claimed_at = NOW() WHERE event_id = ANY($1)`, ids); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return events, nil
}

func (d *Dispatcher) affectedMappings(ctx context.Context, event Event) ([]RoomObjective, error) {
	const query = `SELECT room_id, objective_id
        FROM activity_objective_mappings
        WHERE user_id = $1 AND activity_id = $2
        ORDER BY created_at`

	rows, err := d.pool.Query(ctx, query, event.UserID, event.ActivityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make([]RoomObjective, 0)
	for rows.Next() {
		var pair RoomObjective
		if err := rows.Scan(&pair.RoomID, &pair.ObjectiveID); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (d *Dispatcher) markPublished(ctx context.Context, events []Event) error {
	ids := make([]int64, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.EventID)
	}

	_, err := d.pool.Exec(ctx, `UPDATE live_status_outbox SET published_at = NOW() WHERE event_id = ANY($1)`, ids)
	return err
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KruASe76/grindex/internal/domain"
)

const objectiveColumns = `id, room_id, group_id, name, emoji, color, target_minutes, metric, archived_at`

func scanObjective(row pgx.Row) (domain.Objective, error) {
	var o domain.Objective
	err := row.Scan(&o.ID, &o.RoomID, &o.GroupID, &o.Name, &o.Emoji, &o.Color,
		&o.TargetMinutes, &o.Metric, &o.ArchivedAt)
	return o, err
}

func (s *Store) CreateObjective(ctx context.Context, objective domain.Objective) error {
	const stmt = `INSERT INTO objectives (id, room_id, group_id, name, emoji, color, target_minutes, metric)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, stmt,
		objective.ID, objective.RoomID, objective.GroupID, objective.Name,
		objective.Emoji, objective.Color, objective.TargetMinutes, objective.Metric)
	return err
}

func (s *Store) ObjectivesByRoom(ctx context.Context, roomID uuid.UUID) ([]domain.Objective, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE room_id = $1 ORDER BY name, id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	objectives := make([]domain.Objective, 0)
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	return objectives, rows.Err()
}

func (s *Store) ObjectiveByID(ctx context.Context, objectiveID uuid.UUID) (*domain.Objective, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE id = $1`, objectiveID)

	o, err := scanObjective(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) UpdateObjective(ctx context.Context, objective domain.Objective) error {
	const stmt = `UPDATE objectives
        SET group_id = $2, name = $3, emoji = $4, color = $5,
            target_minutes = $6, metric = $7, archived_at = $8
        WHERE id = $1`

	tag, err := s.pool.Exec(ctx, stmt,
		objective.ID, objective.GroupID, objective.Name, objective.Emoji,
		objective.Color, objective.TargetMinutes, objective.Metric, objective.ArchivedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrObjectiveNotFound
	}
	return nil
}

func (s *Store) DeleteObjective(ctx context.Context, objectiveID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM objectives WHERE id = $1`, objectiveID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrObjectiveNotFound
	}
	return nil
}

func (s *Store) CreateGroup(ctx context.Context, group domain.ObjectiveGroup) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO objective_groups (id, room_id, name) VALUES ($1, $2, $3)`,
		group.ID, group.RoomID, group.Name)
	return err
}

func (s *Store) GroupsByRoom(ctx context.Context, roomID uuid.UUID) ([]domain.ObjectiveGroup, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, room_id, name, archived_at FROM objective_groups WHERE room_id = $1 ORDER BY name, id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]domain.ObjectiveGroup, 0)
	for rows.Next() {
		var g domain.ObjectiveGroup
		if err := rows.Scan(&g.ID, &g.RoomID, &g.Name, &g.ArchivedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Store) GroupByID(ctx context.Context, groupID uuid.UUID) (*domain.ObjectiveGroup, error) {
	var g domain.ObjectiveGroup
	err := s.pool.QueryRow(ctx,
		`SELECT id, room_id, name, archived_at FROM objective_groups WHERE id = $1`, groupID).Scan(
		&g.ID, &g.RoomID, &g.Name, &g.ArchivedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) UpdateGroup(ctx context.Context, group domain.ObjectiveGroup) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE objective_groups SET name = $2, archived_at = $3 WHERE id = $1`,
		group.ID, group.Name, group.ArchivedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// DeleteGroup removes the group; objectives fall back to ungrouped via the
// ON DELETE SET NULL foreign key.
func (s *Store) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM objective_groups WHERE id = $1`, groupID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

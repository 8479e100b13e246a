package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/domain"
)

const mappingColumns = `id, user_id, room_id, activity_id, objective_id, weight, created_at`

// UpsertMapping writes the mapping, overwriting the weight when the tuple
// already exists, and returns the stored row.
func (s *Store) UpsertMapping(ctx context.Context, mapping domain.Mapping) (*domain.Mapping, error) {
	const stmt = `INSERT INTO activity_objective_mappings
            (id, user_id, room_id, activity_id, objective_id, weight)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT ON CONSTRAINT mappings_tuple_key
            DO UPDATE SET weight = EXCLUDED.weight
        RETURNING ` + mappingColumns

	var stored domain.Mapping
	err := s.pool.QueryRow(ctx, stmt,
		mapping.ID, mapping.UserID, mapping.RoomID, mapping.ActivityID,
		mapping.ObjectiveID, mapping.Weight).Scan(
		&stored.ID, &stored.UserID, &stored.RoomID, &stored.ActivityID,
		&stored.ObjectiveID, &stored.Weight, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) DeleteMapping(ctx context.Context, roomID, userID, activityID, objectiveID uuid.UUID) error {
	const stmt = `DELETE FROM activity_objective_mappings
        WHERE room_id = $1 AND user_id = $2 AND activity_id = $3 AND objective_id = $4`

	tag, err := s.pool.Exec(ctx, stmt, roomID, userID, activityID, objectiveID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMappingNotFound
	}
	return nil
}

func (s *Store) MappingsForMember(ctx context.Context, roomID, userID uuid.UUID) ([]domain.Mapping, error) {
	const query = `SELECT ` + mappingColumns + `
        FROM activity_objective_mappings
        WHERE room_id = $1 AND user_id = $2
        ORDER BY created_at`

	return s.queryMappings(ctx, query, roomID, userID)
}

func (s *Store) MappingsByRooms(ctx context.Context, roomIDs []uuid.UUID) ([]domain.Mapping, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	const query = `SELECT ` + mappingColumns + `
        FROM activity_objective_mappings
        WHERE room_id = ANY($1)
        ORDER BY created_at`

	return s.queryMappings(ctx, query, roomIDs)
}

func (s *Store) queryMappings(ctx context.Context, query string, args ...interface{}) ([]domain.Mapping, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := make([]domain.Mapping, 0)
	for rows.Next() {
		var m domain.Mapping
		if err := rows.Scan(&m.ID, &m.UserID, &m.RoomID, &m.ActivityID, &m.ObjectiveID, &m.Weight, &m.CreatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

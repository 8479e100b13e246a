package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KruASe76/grindex/internal/domain"
)

func (s *Store) Room(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	const query = `SELECT id, admin_id, name, resolution, created_at FROM rooms WHERE id = $1`

	var room domain.Room
	err := s.pool.QueryRow(ctx, query, roomID).Scan(
		&room.ID, &room.AdminID, &room.Name, &room.Resolution, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Store) RoomExists(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	return exists, err
}

func (s *Store) RoomsByMember(ctx context.Context, userID uuid.UUID) ([]domain.Room, error) {
	const query = `SELECT r.id, r.admin_id, r.name, r.resolution, r.created_at
        FROM rooms r
        JOIN room_members m ON m.room_id = r.id
        WHERE m.user_id = $1
        ORDER BY m.joined_at`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.AdminID, &room.Name, &room.Resolution, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *Store) CountRoomsByAdmin(ctx context.Context, adminID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM rooms WHERE admin_id = $1`, adminID).Scan(&count)
	return count, err
}

// CreateRoom inserts the room and the admin's own membership in one
// transaction, so a room is never observable without its admin as member.
func (s *Store) CreateRoom(ctx context.Context, room domain.Room) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO rooms (id, admin_id, name, resolution, created_at) VALUES ($1, $2, $3, $4, $5)`,
		room.ID, room.AdminID, room.Name, room.Resolution, room.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO room_members (room_id, user_id, joined_at) VALUES ($1, $2, $3)`,
		room.ID, room.AdminID, room.CreatedAt)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

func (s *Store) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var member bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM room_members WHERE room_id = $1 AND user_id = $2)`,
		roomID, userID).Scan(&member)
	return member, err
}

func (s *Store) AddMember(ctx context.Context, member domain.RoomMember) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO room_members (room_id, user_id, joined_at) VALUES ($1, $2, $3)`,
		member.RoomID, member.UserID, member.JoinedAt)
	if _, unique := uniqueViolation(err); unique {
		return domain.ErrAlreadyMember
	}
	return err
}

// MemberResolution reads the user's personal resolution, defaulting to day
// when no settings row exists.
func (s *Store) MemberResolution(ctx context.Context, userID uuid.UUID) (domain.Resolution, error) {
	var resolution domain.Resolution
	err := s.pool.QueryRow(ctx,
		`SELECT resolution FROM user_settings WHERE user_id = $1`, userID).Scan(&resolution)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ResolutionDay, nil
	}
	if err != nil {
		return "", err
	}
	return resolution, nil
}

func (s *Store) MembersWithNames(ctx context.Context, roomID uuid.UUID) ([]domain.RoomMemberInfo, error) {
	const query = `SELECT m.user_id, u.full_name, m.joined_at
        FROM room_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.room_id = $1
        ORDER BY m.joined_at`

	rows, err := s.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]domain.RoomMemberInfo, 0)
	for rows.Next() {
		var info domain.RoomMemberInfo
		if err := rows.Scan(&info.UserID, &info.FullName, &info.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, info)
	}
	return members, rows.Err()
}

func (s *Store) MemberIDsByRooms(ctx context.Context, roomIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT user_id FROM room_members WHERE room_id = ANY($1)`, roomIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

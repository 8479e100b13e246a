package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/KruASe76/grindex/internal/domain"
)

func (s *Store) InsertReaction(ctx context.Context, reaction domain.Reaction) error {
	const stmt = `INSERT INTO reactions (id, room_id, sender_id, receiver_id, emoji, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, stmt,
		reaction.ID, reaction.RoomID, reaction.SenderID, reaction.ReceiverID,
		reaction.Emoji, reaction.CreatedAt)
	return err
}

func (s *Store) ReactionCounts(ctx context.Context, roomID uuid.UUID) ([]domain.ReactionCount, error) {
	const query = `SELECT receiver_id, emoji, COUNT(*)
        FROM reactions
        WHERE room_id = $1
        GROUP BY receiver_id, emoji
        ORDER BY receiver_id, emoji`

	rows, err := s.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.ReactionCount, 0)
	for rows.Next() {
		var c domain.ReactionCount
		if err := rows.Scan(&c.ReceiverID, &c.Emoji, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReactionRepository captures the append-only reaction log.
type ReactionRepository interface {
	InsertReaction(ctx context.Context, reaction Reaction) error
	ReactionCounts(ctx context.Context, roomID uuid.UUID) ([]ReactionCount, error)
}

// Reactions records emoji reactions between room members and aggregates
// them per receiver.
type Reactions struct {
	repo ReactionRepository
	now  func() time.Time
}

// NewReactions constructs a Reactions service.
func NewReactions(repo ReactionRepository) *Reactions {
	return &Reactions{repo: repo, now: time.Now}
}

// Add appends one reaction event.
func (s *Reactions) Add(ctx context.Context, roomID, senderID, receiverID uuid.UUID, emoji string) (*Reaction, error) {
	reaction := Reaction{
		ID:         uuid.New(),
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Emoji:      emoji,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.InsertReaction(ctx, reaction); err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Aggregate folds the room's reaction log into emoji counts per receiver.
func (s *Reactions) Aggregate(ctx context.Context, roomID uuid.UUID) (map[uuid.UUID]map[string]int, error) {
	counts, err := s.repo.ReactionCounts(ctx, roomID)
	if err != nil {
		return nil, err
	}

	byReceiver := make(map[uuid.UUID]map[string]int)
	for _, c := range counts {
		emojis := byReceiver[c.ReceiverID]
		if emojis == nil {
			emojis = make(map[string]int)
			byReceiver[c.ReceiverID] = emojis
		}
		emojis[c.Emoji] = c.Count
	}
	return byReceiver, nil
}

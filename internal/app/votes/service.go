package votes

import (
	"context"

	"partyq/internal/store"
)

// Store defines the persistence hook for vote aggregation.
type Store interface {
	ApplyVote(ctx context.Context, name, partyCode string, direction store.VoteDirection) (store.Song, error)
}

// Service applies single vote units to queued songs.
type Service interface {
	Apply(ctx context.Context, name, partyCode string, direction store.VoteDirection) (store.Song, error)
}

type service struct {
	store Store
}

// New constructs a votes Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

// Apply adds one up or down vote to the song registered under
// (name, partyCode) and returns the song with its recomputed score.
func (s *service) Apply(ctx context.Context, name, partyCode string, direction store.VoteDirection) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.ApplyVote(ctx, name, partyCode, direction)
}

// DirectionFromValue resolves a raw numeric vote from the wire into a
// sign-only direction: any positive value counts up, everything else
// counts down. Multi-unit votes are never applied.
func DirectionFromValue(value int) store.VoteDirection {
	if value > 0 {
		return store.VoteUp
	}
	return store.VoteDown
}

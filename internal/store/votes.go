package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// VoteDirection is the sign of a single vote unit.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ApplyVote adds exactly one vote unit to the song registered under
// (name, partyCode) and recomputes its net score. The counter update
// and the score recompute happen in one UPDATE so concurrent votes on
// the same song never lose increments. A missing song yields
// ErrSongNotFound with no side effect.
func (s *Store) ApplyVote(ctx context.Context, name, partyCode string, direction VoteDirection) (Song, error) {
	query := `
		UPDATE songs
		SET up_votes = up_votes + 1, net_score = net_score + 1
		WHERE party_code = $1 AND lower(name) = lower($2)
		RETURNING ` + songColumns
	if direction == VoteDown {
		query = `
		UPDATE songs
		SET down_votes = down_votes + 1, net_score = net_score - 1
		WHERE party_code = $1 AND lower(name) = lower($2)
		RETURNING ` + songColumns
	}

	song, err := scanSong(s.db.QueryRowContext(ctx, query, partyCode, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrSongNotFound
		}
		return Song{}, fmt.Errorf("apply vote: %w", err)
	}

	return song, nil
}

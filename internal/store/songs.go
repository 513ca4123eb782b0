package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Song is a candidate track in a party's queue. Metadata is copied
// from the catalog at add-time and never re-synced; the vote counters
// are only ever mutated through ApplyVote.
type Song struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	ImageURL   string `json:"imageUrl"`
	Link       string `json:"link"`
	DurationMs int    `json:"durationMs"`
	PartyCode  string `json:"partyCode"`
	AddedBy    string `json:"addedBy"`
	UpVotes    int    `json:"upVotes"`
	DownVotes  int    `json:"downVotes"`
	NetScore   int    `json:"netScore"`
}

const songColumns = "id, name, artist, image_url, link, duration_ms, party_code, added_by, up_votes, down_votes, net_score"

// AddSong inserts a song with the submitter's implicit upvote. The
// (name, party code) pair is unique per party: re-submitting an
// existing track is a persistence no-op that keeps the original row
// and its votes. The bool reports whether a new row was created.
func (s *Store) AddSong(ctx context.Context, song Song) (Song, bool, error) {
	song.Name = strings.TrimSpace(song.Name)
	song.PartyCode = strings.TrimSpace(song.PartyCode)
	if song.Name == "" || song.PartyCode == "" {
		return Song{}, false, fmt.Errorf("%w: name and party code are required", ErrInvalidSong)
	}

	song.ID = uuid.NewString()
	song.UpVotes = 1
	song.DownVotes = 0
	song.NetScore = 1

	// The unique index on (party_code, lower(name)) makes the
	// check-then-insert a single atomic statement: two concurrent adds
	// for the same track cannot both create a row.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, name, artist, image_url, link, duration_ms, party_code, added_by, up_votes, down_votes, net_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (party_code, lower(name)) DO NOTHING
	`, song.ID, song.Name, song.Artist, song.ImageURL, song.Link, song.DurationMs,
		song.PartyCode, song.AddedBy, song.UpVotes, song.DownVotes, song.NetScore)
	if err != nil {
		return Song{}, false, fmt.Errorf("insert song: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return Song{}, false, fmt.Errorf("insert song: %w", err)
	}
	if inserted == 1 {
		return song, true, nil
	}

	existing, err := s.SongByName(ctx, song.Name, song.PartyCode)
	if err != nil {
		return Song{}, false, err
	}
	return existing, false, nil
}

// SongByName returns the song registered under (name, partyCode).
func (s *Store) SongByName(ctx context.Context, name, partyCode string) (Song, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE party_code = $1 AND lower(name) = lower($2)
	`, partyCode, name)

	song, err := scanSong(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrSongNotFound
		}
		return Song{}, fmt.Errorf("lookup song: %w", err)
	}
	return song, nil
}

const (
	defaultQueueLimit = 50
	maxQueueLimit     = 500
)

// SongsByParty returns the party's queue ordered by net score, best
// first. Ties keep insertion order so repeated calls are stable. The
// limit is clamped to maxQueueLimit; callers cannot size allocations
// or result sets beyond it.
func (s *Store) SongsByParty(ctx context.Context, partyCode string, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	if limit > maxQueueLimit {
		limit = maxQueueLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE party_code = $1
		ORDER BY net_score DESC, seq ASC
		LIMIT $2
	`, partyCode, limit)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]Song, 0, limit)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}

// DeleteSong removes one song by id. Unknown ids are not an error.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM songs
		WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	return nil
}

// DeleteSongsByParty clears a party's entire queue. Idempotent.
func (s *Store) DeleteSongsByParty(ctx context.Context, partyCode string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM songs
		WHERE party_code = $1
	`, partyCode); err != nil {
		return fmt.Errorf("delete party songs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (Song, error) {
	var song Song
	err := row.Scan(
		&song.ID,
		&song.Name,
		&song.Artist,
		&song.ImageURL,
		&song.Link,
		&song.DurationMs,
		&song.PartyCode,
		&song.AddedBy,
		&song.UpVotes,
		&song.DownVotes,
		&song.NetScore,
	)
	return song, err
}

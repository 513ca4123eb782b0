package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrPartyExists signals the party code is already taken.
	ErrPartyExists = errors.New("party already exists")
	// ErrPartyNotFound indicates a lookup for an unknown party code.
	ErrPartyNotFound = errors.New("party not found")
	// ErrSongNotFound indicates a vote or lookup against a missing song.
	ErrSongNotFound = errors.New("song not found")
	// ErrInvalidSong signals a song submission missing required fields.
	ErrInvalidSong = errors.New("invalid song")
	// ErrInvalidParty signals a party create request missing required fields.
	ErrInvalidParty = errors.New("invalid party")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

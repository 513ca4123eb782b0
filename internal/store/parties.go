package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Party represents a listening session owned by one host. The code is
// the shareable lookup key; the token lets the host act against the
// music catalog on behalf of the party.
type Party struct {
	PartyCode string    `json:"partyCode"`
	HostID    string    `json:"hostId"`
	AuthToken string    `json:"authToken"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateParty persists a new party. The party code is unique; creating
// under an existing code fails with ErrPartyExists and never merges.
func (s *Store) CreateParty(ctx context.Context, party Party) (Party, error) {
	party.PartyCode = strings.TrimSpace(party.PartyCode)
	if party.PartyCode == "" || party.HostID == "" {
		return Party{}, fmt.Errorf("%w: party code and host are required", ErrInvalidParty)
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO parties (party_code, host_id, auth_token, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, party.PartyCode, party.HostID, party.AuthToken, time.Now().UTC()).Scan(&party.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Party{}, ErrPartyExists
		}
		return Party{}, fmt.Errorf("insert party: %w", err)
	}

	return party, nil
}

// PartyByCode returns the party registered under the given code.
func (s *Store) PartyByCode(ctx context.Context, partyCode string) (Party, error) {
	var party Party
	err := s.db.QueryRowContext(ctx, `
		SELECT party_code, host_id, auth_token, created_at
		FROM parties
		WHERE party_code = $1
	`, partyCode).Scan(&party.PartyCode, &party.HostID, &party.AuthToken, &party.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Party{}, ErrPartyNotFound
		}
		return Party{}, fmt.Errorf("lookup party: %w", err)
	}
	return party, nil
}

// DeleteParty removes the party and every song submitted under its
// code in one transaction, so no song outlives its party. Deleting an
// unknown code is a no-op.
func (s *Store) DeleteParty(ctx context.Context, partyCode string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM songs
		WHERE party_code = $1
	`, partyCode); err != nil {
		return fmt.Errorf("delete party songs: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM parties
		WHERE party_code = $1
	`, partyCode); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

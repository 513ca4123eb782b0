package songs

import (
	"context"

	"partyq/internal/store"
)

// Store defines the persistence hooks for queue workflows.
type Store interface {
	AddSong(ctx context.Context, song store.Song) (store.Song, bool, error)
	SongsByParty(ctx context.Context, partyCode string, limit int) ([]store.Song, error)
	DeleteSong(ctx context.Context, id string) error
	DeleteSongsByParty(ctx context.Context, partyCode string) error
}

// Service coordinates the deduplicated, ranked song queue of a party.
type Service interface {
	Add(ctx context.Context, submission Submission, partyCode, addedBy string) ([]store.Song, error)
	List(ctx context.Context, partyCode string, limit int) ([]store.Song, error)
	Remove(ctx context.Context, id string) error
	RemoveAll(ctx context.Context, partyCode string) error
}

type service struct {
	store Store
}

// New constructs a songs Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

// Add submits each track of the batch independently. A track already
// queued under the party keeps its original row and votes; a track
// that fails to persist is skipped without blocking the rest. Add only
// errors when nothing in the submission could be processed.
func (s *service) Add(ctx context.Context, submission Submission, partyCode, addedBy string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processed := make([]store.Song, 0, len(submission))
	var lastErr error
	for _, track := range submission {
		song, _, err := s.store.AddSong(ctx, store.Song{
			Name:       track.Name,
			Artist:     track.Artist,
			ImageURL:   track.ImageURL,
			Link:       track.Link,
			DurationMs: track.DurationMs,
			PartyCode:  partyCode,
			AddedBy:    addedBy,
		})
		if err != nil {
			lastErr = err
			continue
		}
		processed = append(processed, song)
	}

	if len(processed) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return processed, nil
}

// List returns the party's queue ranked by net score.
func (s *service) List(ctx context.Context, partyCode string, limit int) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SongsByParty(ctx, partyCode, limit)
}

func (s *service) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}

func (s *service) RemoveAll(ctx context.Context, partyCode string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSongsByParty(ctx, partyCode)
}

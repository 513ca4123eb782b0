package parties

import (
	"context"
	"fmt"

	"github.com/teris-io/shortid"

	"partyq/internal/store"
)

// Store defines the persistence hooks for party lifecycle workflows.
type Store interface {
	CreateParty(ctx context.Context, party store.Party) (store.Party, error)
	PartyByCode(ctx context.Context, partyCode string) (store.Party, error)
	DeleteParty(ctx context.Context, partyCode string) error
}

// Service coordinates party creation, lookup and teardown.
type Service interface {
	Create(ctx context.Context, partyCode, hostID, authToken string) (store.Party, error)
	Find(ctx context.Context, partyCode string) (store.Party, error)
	Delete(ctx context.Context, partyCode string) error
}

type service struct {
	store        Store
	generateCode func() (string, error)
}

// New constructs a parties Service backed by the given Store.
func New(store Store) Service {
	return &service{
		store:        store,
		generateCode: shortid.Generate,
	}
}

// Create registers a party under the given code, minting a short code
// when the host did not supply one. An existing code is rejected with
// store.ErrPartyExists, never merged.
func (s *service) Create(ctx context.Context, partyCode, hostID, authToken string) (store.Party, error) {
	if err := ctx.Err(); err != nil {
		return store.Party{}, err
	}

	if partyCode == "" {
		code, err := s.generateCode()
		if err != nil {
			return store.Party{}, fmt.Errorf("generate party code: %w", err)
		}
		partyCode = code
	}

	return s.store.CreateParty(ctx, store.Party{
		PartyCode: partyCode,
		HostID:    hostID,
		AuthToken: authToken,
	})
}

func (s *service) Find(ctx context.Context, partyCode string) (store.Party, error) {
	if err := ctx.Err(); err != nil {
		return store.Party{}, err
	}
	return s.store.PartyByCode(ctx, partyCode)
}

// Delete tears the party down together with its queue.
func (s *service) Delete(ctx context.Context, partyCode string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteParty(ctx, partyCode)
}

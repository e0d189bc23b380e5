// Package keys is the registry of the two users' public keys. Key material
// is opaque here: a malformed key registers fine and surfaces later as a
// decryption failure on the partner's side.
package keys

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/loveloggy/loveloggy/internal/couple"
)

// Service manages public key registration and partner lookup.
type Service struct {
	store couple.Store
}

// NewService creates a key registry over the shared couple store.
func NewService(store couple.Store) *Service {
	return &Service{store: store}
}

// Register stores userID's public key, replacing any prior record for the
// same user. Registration is only possible once the couple has at least
// one member.
func (s *Service) Register(ctx context.Context, userID string, publicKey json.RawMessage) error {
	if userID == "" || len(publicKey) == 0 {
		return couple.ErrMissingFields
	}

	_, err := s.store.Update(ctx, func(state *couple.State) error {
		if state.User1 == nil && state.User2 == nil {
			return couple.ErrNoUsers
		}
		kept := state.Keys[:0]
		for _, k := range state.Keys {
			if k.UserID != userID {
				kept = append(kept, k)
			}
		}
		state.Keys = append(kept, couple.KeyRecord{
			ID:           uuid.NewString(),
			UserID:       userID,
			PublicKeyJWK: publicKey,
			CreatedAt:    time.Now().UTC(),
		})
		return nil
	})
	return err
}

// PartnerKey returns the key registered by the other member of the couple.
// The partner is resolved from the couple's two known user ids, so a stale
// record for an unknown id can never masquerade as the partner.
func (s *Service) PartnerKey(ctx context.Context, userID string) (couple.KeyRecord, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return couple.KeyRecord{}, err
	}

	partner := state.PartnerOf(userID)
	if partner == nil {
		return couple.KeyRecord{}, couple.ErrPartnerKeyNotFound
	}
	for _, k := range state.Keys {
		if k.UserID == partner.ID {
			return k, nil
		}
	}
	return couple.KeyRecord{}, couple.ErrPartnerKeyNotFound
}

// Package messages is the append-only log of sealed chat entries. The
// server stores ciphertext and IV as opaque blobs; plaintext never crosses
// the persistence boundary.
package messages

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/loveloggy/loveloggy/internal/couple"
)

const unknownSender = "Unknown"

// Service appends and lists sealed messages.
type Service struct {
	store couple.Store
}

// NewService creates a message store over the shared couple store.
func NewService(store couple.Store) *Service {
	return &Service{store: store}
}

// AppendInput carries one sealed message from a client.
type AppendInput struct {
	SenderID   string
	SenderName string
	Ciphertext string
	IV         string
}

// Append records a new message. Messaging requires a complete couple; a
// lone first user has nobody to derive a shared key with yet.
func (s *Service) Append(ctx context.Context, in AppendInput) (couple.Message, error) {
	if in.SenderID == "" || in.Ciphertext == "" || in.IV == "" {
		return couple.Message{}, couple.ErrMissingFields
	}
	if in.SenderName == "" {
		in.SenderName = unknownSender
	}

	msg := couple.Message{
		ID:         uuid.NewString(),
		SenderID:   in.SenderID,
		SenderName: in.SenderName,
		Ciphertext: in.Ciphertext,
		IV:         in.IV,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.store.Update(ctx, func(state *couple.State) error {
		if !state.Coupled() {
			return couple.ErrCoupleIncomplete
		}
		state.Messages = append(state.Messages, msg)
		return nil
	})
	if err != nil {
		return couple.Message{}, err
	}
	return msg, nil
}

// ListAll returns the full message history in insertion order.
func (s *Service) ListAll(ctx context.Context) ([]couple.Message, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state.Messages == nil {
		return []couple.Message{}, nil
	}
	return state.Messages, nil
}

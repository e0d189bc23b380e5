package couple

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.Mutex
	state State
}

// NewMemoryStore builds an in-memory store for testing.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), nil
}

func (s *memoryStore) Update(_ context.Context, apply func(*State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := apply(&next); err != nil {
		return State{}, err
	}
	s.state = next
	return next.Clone(), nil
}

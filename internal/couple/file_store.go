package couple

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the couple document in a single JSON file, rewritten
// wholesale on every mutation. A process-wide mutex serializes all
// read-modify-write cycles. An unreadable or missing file is treated as a
// fresh empty state, never as a fatal error.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore builds a store persisting to path. Parent directories are
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the current document.
func (s *FileStore) Load(_ context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(), nil
}

// Update applies one mutation under the store lock and persists the full
// updated document. The apply callback aborting leaves the file untouched.
func (s *FileStore) Update(_ context.Context, apply func(*State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.read()
	if err := apply(&state); err != nil {
		return State{}, err
	}
	if err := s.write(state); err != nil {
		return State{}, err
	}
	return state.Clone(), nil
}

func (s *FileStore) read() State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return State{}
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}
	}
	return state
}

// write persists the document via a temp file in the same directory and an
// atomic rename, so a crash mid-write can never leave a torn document that
// a later read would mistake for a fresh empty state.
func (s *FileStore) write(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

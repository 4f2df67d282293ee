package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage persists the session as a JSON file, readable only by the
// owning user.
type FileStorage struct {
	path string
}

// NewFileStorage ensures the parent directory exists and returns a handle.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		path = ".dashboard-session.json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
	}
	return &FileStorage{path: path}, nil
}

// Load reads the stored state. A missing file yields an empty state.
func (s *FileStorage) Load(ctx context.Context) (*State, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(raw, state); err != nil {
		// A corrupt file is treated as no session rather than an error
		// the caller cannot act on.
		return &State{}, nil
	}
	return state, nil
}

// Save writes the state atomically via a temp file rename.
func (s *FileStorage) Save(ctx context.Context, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the stored session if present.
func (s *FileStorage) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}

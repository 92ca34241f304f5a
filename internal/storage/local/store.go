// Package local provides the default persistence gateway: a mutex-guarded
// JSON snapshot file on disk.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/mentor/internal/state"
)

const stateFileName = "state.json"

// Store persists engine snapshots to a single JSON file
type Store struct {
	basePath string
	mu       sync.RWMutex
}

// NewStore creates a local snapshot store rooted at basePath
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// SaveState writes the snapshot atomically (temp file + rename)
func (s *Store) SaveState(st *state.EngineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	path := filepath.Join(s.basePath, stateFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// LoadState reads the snapshot. A missing file returns ErrNotFound.
func (s *Store) LoadState() (*state.EngineState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.basePath, stateFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st state.EngineState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return &st, nil
}

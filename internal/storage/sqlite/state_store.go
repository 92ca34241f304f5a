package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mentor/internal/state"
)

// stateID is the single snapshot row the engine reads and writes
const stateID = "engine"

// StateStore implements the engine's persistence gateway on SQLite
type StateStore struct {
	db *DB
}

// NewStateStore creates a snapshot store over an open database
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// SaveState upserts the engine snapshot
func (s *StateStore) SaveState(st *state.EngineState) error {
	blob, err := st.Encode()
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, blob, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			blob=excluded.blob,
			updated_at=excluded.updated_at`,
		stateID, string(blob),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	return nil
}

// LoadState reads the engine snapshot. An empty database returns ErrNotFound.
func (s *StateStore) LoadState() (*state.EngineState, error) {
	var blob string
	err := s.db.QueryRow(`SELECT blob FROM snapshots WHERE id = ?`, stateID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	return state.Decode([]byte(blob))
}

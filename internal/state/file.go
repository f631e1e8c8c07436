package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// stateFile is the on-disk JSON format for a user's processed-id set.
type stateFile struct {
	IDs       []string  `json:"ids"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore persists processed-id sets as one JSON file per user under a
// state directory. It is the local fallback backend.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, userID+"_processed.json")
}

// Load reads the user's set from disk. A missing or corrupt file yields
// an empty set rather than an error: losing local state only means some
// messages may be re-processed once.
func (s *FileStore) Load(_ context.Context, userID string) (*ProcessedSet, error) {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return NewProcessedSet(), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return NewProcessedSet(), nil
	}
	return FromIDs(sf.IDs), nil
}

// Save writes the user's set to disk, creating the state directory on
// first use.
func (s *FileStore) Save(_ context.Context, userID string, set *ProcessedSet) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.Marshal(stateFile{IDs: set.IDs(), UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(s.path(userID), data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

package briefing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teemow/inboxpilot/internal/brain"
)

// Store persists briefings, one per user per day. Generating twice on
// the same day overwrites the earlier briefing.
type Store interface {
	Put(ctx context.Context, b *brain.Briefing) error
	// Latest returns the newest stored briefing for a user, or nil when
	// none exists.
	Latest(ctx context.Context, userID string) (*brain.Briefing, error)
}

// FileStore keeps briefings as one JSON file per day under a directory
// per user.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed briefing store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(userID string, b *brain.Briefing) string {
	return filepath.Join(s.dir, userID, b.Date.Format("2006-01-02")+".json")
}

// Put writes the briefing, creating the user's directory on first use.
func (s *FileStore) Put(_ context.Context, b *brain.Briefing) error {
	if b.UserID == "" {
		return fmt.Errorf("briefing has no user id")
	}
	if err := os.MkdirAll(filepath.Join(s.dir, b.UserID), 0o755); err != nil {
		return fmt.Errorf("create briefing dir: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode briefing: %w", err)
	}
	if err := os.WriteFile(s.path(b.UserID, b), data, 0o644); err != nil {
		return fmt.Errorf("write briefing file: %w", err)
	}
	return nil
}

// Latest returns the newest briefing for a user. The date-stamped file
// names sort chronologically, so the last name is the latest.
func (s *FileStore) Latest(_ context.Context, userID string) (*brain.Briefing, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read briefing dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	data, err := os.ReadFile(filepath.Join(s.dir, userID, names[len(names)-1]))
	if err != nil {
		return nil, fmt.Errorf("read briefing file: %w", err)
	}
	var b brain.Briefing
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode briefing file: %w", err)
	}
	return &b, nil
}

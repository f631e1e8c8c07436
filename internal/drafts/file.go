package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps one JSON file per draft under a directory. It is safe
// for concurrent use within one process.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a draft store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Put saves the draft, assigning an id and timestamps when missing.
func (s *FileStore) Put(_ context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = StatusPending
	}
	if d.SafetySeverity == "" {
		d.SafetySeverity = SeverityNone
	}
	return s.write(d)
}

// Get returns the draft or ErrNotFound.
func (s *FileStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// List returns a user's drafts, newest first.
func (s *FileStore) List(_ context.Context, userID string) ([]*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read drafts dir: %w", err)
	}

	var out []*Draft
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		d, err := s.read(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SetStatus moves a draft to a new lifecycle state.
func (s *FileStore) SetStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.read(id)
	if err != nil {
		return err
	}
	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	return s.write(d)
}

func (s *FileStore) read(id string) (*Draft, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("draft %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse draft %q: %w", id, err)
	}
	return &d, nil
}

func (s *FileStore) write(d *Draft) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.WriteFile(s.path(d.ID), data, 0o644); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

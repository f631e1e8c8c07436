package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// FileDirectory serves the roster from a single JSON document of the form
//
//	{"users": [{"id": "...", "accounts": [...], "settings": {...}}]}
//
// The file is read once and cached; Reload picks up edits.
type FileDirectory struct {
	path string

	mu    sync.RWMutex
	byID  map[string]*User
	order []string
}

// NewFileDirectory loads the roster from path.
func NewFileDirectory(path string) (*FileDirectory, error) {
	d := &FileDirectory{path: path}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the roster file.
func (d *FileDirectory) Reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("read users file: %w", err)
	}

	var doc struct {
		Users []*User `json:"users"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse users file: %w", err)
	}

	byID := make(map[string]*User, len(doc.Users))
	order := make([]string, 0, len(doc.Users))
	for _, u := range doc.Users {
		if u.ID == "" {
			return fmt.Errorf("parse users file: user without id")
		}
		if _, dup := byID[u.ID]; dup {
			return fmt.Errorf("parse users file: duplicate user id %q", u.ID)
		}
		byID[u.ID] = u
		order = append(order, u.ID)
	}
	sort.Strings(order)

	d.mu.Lock()
	d.byID = byID
	d.order = order
	d.mu.Unlock()
	return nil
}

// Get returns the user or ErrNotFound.
func (d *FileDirectory) Get(_ context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	return u, nil
}

// List returns every user ordered by id.
func (d *FileDirectory) List(_ context.Context) ([]*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*User, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out, nil
}

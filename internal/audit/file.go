package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileRecorder appends audit entries as JSON files under a log directory:
// <user>_<unix>.json for cycles, cycle_<unix>.json for fleet summaries.
type FileRecorder struct {
	dir string
}

// NewFileRecorder creates a file-backed recorder rooted at dir.
func NewFileRecorder(dir string) *FileRecorder {
	return &FileRecorder{dir: dir}
}

// RecordCycle writes one cycle entry.
func (r *FileRecorder) RecordCycle(_ context.Context, entry CycleEntry) error {
	name := fmt.Sprintf("%s_%d.json", entry.UserID, entry.CycleEnd.Unix())
	return r.write(name, entry)
}

// RecordFleet writes one fleet summary entry.
func (r *FileRecorder) RecordFleet(_ context.Context, entry FleetEntry) error {
	name := fmt.Sprintf("cycle_%d.json", entry.Timestamp.Unix())
	return r.write(name, entry)
}

// LatestFleet returns the most recent fleet summary, or nil when none has
// been written yet. Used by the status endpoint.
func (r *FileRecorder) LatestFleet(_ context.Context) (*FleetEntry, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read audit dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "cycle_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	data, err := os.ReadFile(filepath.Join(r.dir, names[len(names)-1]))
	if err != nil {
		return nil, fmt.Errorf("read fleet entry: %w", err)
	}
	var fe FleetEntry
	if err := json.Unmarshal(data, &fe); err != nil {
		return nil, fmt.Errorf("parse fleet entry: %w", err)
	}
	return &fe, nil
}

// LatestCycle returns a user's most recent cycle entry, or nil when the
// user has no recorded cycles.
func (r *FileRecorder) LatestCycle(_ context.Context, userID string) (*CycleEntry, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read audit dir: %w", err)
	}

	prefix := userID + "_"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	data, err := os.ReadFile(filepath.Join(r.dir, names[len(names)-1]))
	if err != nil {
		return nil, fmt.Errorf("read cycle entry: %w", err)
	}
	var ce CycleEntry
	if err := json.Unmarshal(data, &ce); err != nil {
		return nil, fmt.Errorf("parse cycle entry: %w", err)
	}
	return &ce, nil
}

func (r *FileRecorder) write(name string, v any) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

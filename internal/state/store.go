package state

import (
	"context"
	"log/slog"
)

// Store loads and saves the processed-id set for a user. Load returns an
// empty set, not an error, when no state exists yet.
type Store interface {
	Load(ctx context.Context, userID string) (*ProcessedSet, error)
	Save(ctx context.Context, userID string, set *ProcessedSet) error
}

// Fallback is a Store that tries a primary backend and degrades to a
// secondary one when the primary fails. Primary errors are logged and
// swallowed; only a failure of both backends surfaces to the caller.
type Fallback struct {
	primary   Store
	secondary Store
	logger    *slog.Logger
	onFall    func()
}

// NewFallback builds the composite store. onFallback may be nil; when set
// it is invoked once per degraded operation (used for metrics).
func NewFallback(primary, secondary Store, logger *slog.Logger, onFallback func()) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger, onFall: onFallback}
}

// Load reads from the primary store, falling back to the secondary.
func (f *Fallback) Load(ctx context.Context, userID string) (*ProcessedSet, error) {
	if f.primary != nil {
		set, err := f.primary.Load(ctx, userID)
		if err == nil {
			return set, nil
		}
		f.degraded(userID, "load", err)
	}
	return f.secondary.Load(ctx, userID)
}

// Save writes to the primary store, falling back to the secondary.
func (f *Fallback) Save(ctx context.Context, userID string, set *ProcessedSet) error {
	if f.primary != nil {
		err := f.primary.Save(ctx, userID, set)
		if err == nil {
			return nil
		}
		f.degraded(userID, "save", err)
	}
	return f.secondary.Save(ctx, userID, set)
}

func (f *Fallback) degraded(userID, op string, err error) {
	f.logger.Warn("primary state store failed, falling back",
		slog.String("operation", op),
		slog.String("user_id", userID),
		slog.String("error", err.Error()),
	)
	if f.onFall != nil {
		f.onFall()
	}
}

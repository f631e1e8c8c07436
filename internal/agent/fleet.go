package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/users"
)

// CycleRunner runs one user's cycle. *Orchestrator satisfies this.
type CycleRunner interface {
	RunCycle(ctx context.Context, userID string) *CycleResult
}

// Fleet drives cycles for every known user, one after another.
type Fleet struct {
	runner    CycleRunner
	directory users.Directory
	recorder  audit.Recorder
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewFleet builds the fleet runner. metrics may be nil.
func NewFleet(runner CycleRunner, directory users.Directory, recorder audit.Recorder, metrics *instrumentation.Metrics, logger *slog.Logger) *Fleet {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fleet{
		runner:    runner,
		directory: directory,
		recorder:  recorder,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes every user with at least one active account and records
// a fleet summary. One user failing never stops the others.
func (f *Fleet) Run(ctx context.Context) (*audit.FleetEntry, error) {
	start := f.now()
	list, err := f.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entry := &audit.FleetEntry{Timestamp: start}
	for _, u := range list {
		if len(u.ActiveAccounts()) == 0 {
			f.logger.Info("skipping user with no active accounts", logging.UserID(u.ID))
			continue
		}

		result := f.runOne(ctx, u.ID)
		if result.Status == StatusFailed {
			entry.Failures++
		}
		entry.UsersProcessed++
		entry.TotalEmails += result.EmailsProcessed
		entry.Users = append(entry.Users, audit.UserOutcome{
			UserID:          u.ID,
			Status:          string(result.Status),
			EmailsProcessed: result.EmailsProcessed,
			Errors:          len(result.Errors),
		})
	}
	entry.ElapsedSeconds = f.now().Sub(start).Seconds()

	if err := f.recorder.RecordFleet(ctx, *entry); err != nil {
		f.logger.Error("failed to record fleet summary", logging.Err(err))
	}

	status := "ok"
	if entry.Failures > 0 {
		status = "degraded"
	}
	f.metrics.RecordFleetRun(ctx, status)
	f.logger.Info("fleet run finished",
		slog.Int("users", entry.UsersProcessed),
		slog.Int("emails", entry.TotalEmails),
		slog.Int("failures", entry.Failures),
		logging.Duration(time.Duration(entry.ElapsedSeconds*float64(time.Second))),
	)
	return entry, nil
}

// runOne contains a panic from a single user's cycle.
func (f *Fleet) runOne(ctx context.Context, userID string) (result *CycleResult) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("cycle panicked", logging.UserID(userID), slog.Any("panic", r))
			result = &CycleResult{
				UserID: userID,
				Status: StatusFailed,
				Start:  f.now(),
				End:    f.now(),
				Errors: []audit.CycleError{{Stage: "cycle", Error: fmt.Sprintf("panic: %v", r)}},
			}
		}
	}()
	return f.runner.RunCycle(ctx, userID)
}

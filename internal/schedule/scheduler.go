package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/brain"
	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/users"
)

// DefaultInterval is how often the fleet cycle runs when nothing else
// is configured.
const DefaultInterval = 60 * time.Minute

// FleetRunner runs one pass over all users. *agent.Fleet satisfies this.
type FleetRunner interface {
	Run(ctx context.Context) (*audit.FleetEntry, error)
}

// BriefingRunner generates one user's briefing. *briefing.Service
// satisfies this.
type BriefingRunner interface {
	Run(ctx context.Context, userID string) (*brain.Briefing, error)
}

// Scheduler owns the cron table for the recurring jobs.
type Scheduler struct {
	cron      *cron.Cron
	fleet     FleetRunner
	briefings BriefingRunner
	directory users.Directory
	logger    *slog.Logger
	interval  time.Duration
}

// New builds a scheduler. interval <= 0 selects DefaultInterval;
// briefings may be nil to disable briefing jobs.
func New(fleet FleetRunner, briefings BriefingRunner, directory users.Directory, logger *slog.Logger, interval time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		cron:      cron.New(),
		fleet:     fleet,
		briefings: briefings,
		directory: directory,
		logger:    logger,
		interval:  interval,
	}
}

// Start registers the jobs and starts the cron loop. The context is
// captured for the lifetime of the jobs; cancel it before Stop to
// interrupt in-flight work.
func (s *Scheduler) Start(ctx context.Context) error {
	fleetSpec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(fleetSpec, func() {
		if _, err := s.fleet.Run(ctx); err != nil {
			s.logger.Error("scheduled fleet run failed", logging.Err(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule fleet job: %w", err)
	}
	s.logger.Info("fleet cycle scheduled", slog.String("interval", s.interval.String()))

	if s.briefings != nil {
		if err := s.scheduleBriefings(ctx); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and returns a context that is done once all
// running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Jobs returns how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// scheduleBriefings adds one daily job per user with a briefing time.
// A single user's broken settings are logged and skipped so the rest of
// the table still loads.
func (s *Scheduler) scheduleBriefings(ctx context.Context) error {
	list, err := s.directory.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for briefing schedule: %w", err)
	}

	for _, u := range list {
		if u.Settings.BriefingTime == "" {
			continue
		}
		spec, err := briefingSpec(u.Settings.BriefingTime, u.Settings.BriefingTimezone)
		if err != nil {
			s.logger.Warn("invalid briefing time, skipping",
				logging.UserID(u.ID), logging.Err(err))
			continue
		}

		userID := u.ID
		if _, err := s.cron.AddFunc(spec, func() {
			if _, err := s.briefings.Run(ctx, userID); err != nil {
				s.logger.Error("scheduled briefing failed",
					logging.UserID(userID), logging.Err(err))
			}
		}); err != nil {
			s.logger.Warn("failed to schedule briefing",
				logging.UserID(u.ID), logging.Err(err))
			continue
		}
		s.logger.Info("briefing scheduled",
			logging.UserID(u.ID), slog.String("spec", spec))
	}
	return nil
}

// briefingSpec renders a daily cron spec for a local HH:MM time. An
// empty timezone means the process's local time.
func briefingSpec(hhmm, timezone string) (string, error) {
	at, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("briefing time %q is not HH:MM: %w", hhmm, err)
	}
	spec := fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	if timezone == "" {
		return spec, nil
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return "", fmt.Errorf("unknown briefing timezone %q: %w", timezone, err)
	}
	return "CRON_TZ=" + timezone + " " + spec, nil
}

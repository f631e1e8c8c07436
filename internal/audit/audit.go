package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/inboxpilot/internal/mail"
)

// SubAction names one concrete thing done for a message.
type SubAction string

// Sub-action kinds recorded per message.
const (
	SubActionLabeled      SubAction = "labeled"
	SubActionTaskCreated  SubAction = "task_created"
	SubActionDraftCreated SubAction = "draft_created"
)

// ActionRecord is the audit trail for one processed message. It is
// immutable once appended.
type ActionRecord struct {
	MessageID string        `json:"message_id"`
	Account   string        `json:"account,omitempty"`
	Sender    string        `json:"sender"`
	Subject   string        `json:"subject"`
	Priority  mail.Priority `json:"priority,omitempty"`
	Category  mail.Category `json:"category,omitempty"`
	VIP       bool          `json:"is_vip"`
	Summary   string        `json:"summary,omitempty"`
	Actions   []SubAction   `json:"actions"`
	Timestamp time.Time     `json:"timestamp"`
}

// CycleError attributes one failure inside a cycle to its message.
type CycleError struct {
	MessageID string `json:"message_id,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Error     string `json:"error"`
}

// CycleEntry is the persisted record of one user cycle.
type CycleEntry struct {
	UserID          string         `json:"user_id"`
	CycleStart      time.Time      `json:"cycle_start"`
	CycleEnd        time.Time      `json:"cycle_end"`
	ElapsedSeconds  float64        `json:"elapsed_seconds"`
	EmailsProcessed int            `json:"emails_processed"`
	Errors          []CycleError   `json:"errors"`
	Actions         []ActionRecord `json:"actions"`
	Summary         string         `json:"summary"`
}

// UserOutcome is one user's line in a fleet summary.
type UserOutcome struct {
	UserID          string `json:"user_id"`
	Status          string `json:"status"`
	EmailsProcessed int    `json:"emails_processed"`
	Errors          int    `json:"errors"`
}

// FleetEntry is the persisted summary of one multi-user run.
type FleetEntry struct {
	Timestamp      time.Time     `json:"timestamp"`
	UsersProcessed int           `json:"users_processed"`
	TotalEmails    int           `json:"total_emails"`
	Failures       int           `json:"failures"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	Users          []UserOutcome `json:"users"`
}

// Recorder appends audit entries. Implementations must be usable from the
// orchestrator's hot path: errors are returned for logging but callers
// never treat them as cycle failures.
type Recorder interface {
	RecordCycle(ctx context.Context, entry CycleEntry) error
	RecordFleet(ctx context.Context, entry FleetEntry) error
}

// Fallback is a Recorder that prefers a primary backend and degrades to a
// secondary one, mirroring state.Fallback.
type Fallback struct {
	primary   Recorder
	secondary Recorder
	logger    *slog.Logger
	onFall    func()
}

// NewFallback builds the composite recorder. onFallback may be nil.
func NewFallback(primary, secondary Recorder, logger *slog.Logger, onFallback func()) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger, onFall: onFallback}
}

// RecordCycle writes to the primary recorder, falling back to the secondary.
func (f *Fallback) RecordCycle(ctx context.Context, entry CycleEntry) error {
	if f.primary != nil {
		err := f.primary.RecordCycle(ctx, entry)
		if err == nil {
			return nil
		}
		f.degraded("cycle", err)
	}
	return f.secondary.RecordCycle(ctx, entry)
}

// RecordFleet writes to the primary recorder, falling back to the secondary.
func (f *Fallback) RecordFleet(ctx context.Context, entry FleetEntry) error {
	if f.primary != nil {
		err := f.primary.RecordFleet(ctx, entry)
		if err == nil {
			return nil
		}
		f.degraded("fleet", err)
	}
	return f.secondary.RecordFleet(ctx, entry)
}

func (f *Fallback) degraded(kind string, err error) {
	f.logger.Warn("primary audit recorder failed, falling back",
		slog.String("entry", kind),
		slog.String("error", err.Error()),
	)
	if f.onFall != nil {
		f.onFall()
	}
}

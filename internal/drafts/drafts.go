package drafts

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a draft id is unknown.
var ErrNotFound = errors.New("draft not found")

// Status is a draft's position in its approval lifecycle.
type Status string

// Draft lifecycle states.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusSent     Status = "sent"
	StatusRejected Status = "rejected"
	StatusAutoSent Status = "auto_sent"
)

// Severity grades the safety review of a draft.
type Severity string

// Safety severities, from harmless to blocking.
const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Draft is one generated reply awaiting (or past) user review.
type Draft struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	MessageID      string    `json:"message_id"`
	ThreadID       string    `json:"thread_id,omitempty"`
	Account        string    `json:"account"`
	To             string    `json:"to"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Status         Status    `json:"status"`
	Instructions   string    `json:"instructions,omitempty"`
	SafetyFlags    []string  `json:"safety_flags,omitempty"`
	SafetySeverity Severity  `json:"safety_severity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store persists drafts.
type Store interface {
	// Put saves the draft, assigning an id when it has none.
	Put(ctx context.Context, d *Draft) error
	// Get returns the draft or ErrNotFound.
	Get(ctx context.Context, id string) (*Draft, error)
	// List returns a user's drafts, newest first.
	List(ctx context.Context, userID string) ([]*Draft, error)
	// SetStatus moves a draft to a new lifecycle state.
	SetStatus(ctx context.Context, id string, status Status) error
}

package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/mail"
)

// Status is the overall outcome of one cycle.
type Status string

// Cycle outcomes.
const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not_found"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// CycleResult is everything one cycle did for one user.
type CycleResult struct {
	UserID          string
	Status          Status
	Start           time.Time
	End             time.Time
	EmailsProcessed int
	TasksCreated    int
	DraftsCreated   int
	Actions         []audit.ActionRecord
	Errors          []audit.CycleError
}

// Elapsed returns the cycle's wall time.
func (r *CycleResult) Elapsed() time.Duration {
	return r.End.Sub(r.Start)
}

// Summary renders a short human-readable cycle report, e.g.
//
//	Processed 5 emails in 12.3s:
//	  action_required: 2
//	  newsletter: 3
//	  Tasks created: 2
//	  Drafts created: 1
func (r *CycleResult) Summary() string {
	elapsed := r.Elapsed().Seconds()
	if r.EmailsProcessed == 0 {
		return fmt.Sprintf("No new emails to process (%.1fs)", elapsed)
	}

	counts := make(map[mail.Category]int)
	for _, a := range r.Actions {
		counts[a.Category]++
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d emails in %.1fs:", r.EmailsProcessed, elapsed)
	for _, c := range categories {
		fmt.Fprintf(&b, "\n  %s: %d", c, counts[mail.Category(c)])
	}
	if r.TasksCreated > 0 {
		fmt.Fprintf(&b, "\n  Tasks created: %d", r.TasksCreated)
	}
	if r.DraftsCreated > 0 {
		fmt.Fprintf(&b, "\n  Drafts created: %d", r.DraftsCreated)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\n  Errors: %d", len(r.Errors))
	}
	return b.String()
}

// auditEntry converts the result into its persisted form.
func (r *CycleResult) auditEntry() audit.CycleEntry {
	return audit.CycleEntry{
		UserID:          r.UserID,
		CycleStart:      r.Start,
		CycleEnd:        r.End,
		ElapsedSeconds:  r.Elapsed().Seconds(),
		EmailsProcessed: r.EmailsProcessed,
		Errors:          r.Errors,
		Actions:         r.Actions,
		Summary:         r.Summary(),
	}
}

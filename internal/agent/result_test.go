package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/mail"
)

func TestSummaryNoEmails(t *testing.T) {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	r := &CycleResult{Start: start, End: start.Add(2500 * time.Millisecond)}

	assert.Equal(t, "No new emails to process (2.5s)", r.Summary())
}

func TestSummaryWithCounts(t *testing.T) {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	r := &CycleResult{
		Start:           start,
		End:             start.Add(12300 * time.Millisecond),
		EmailsProcessed: 4,
		TasksCreated:    2,
		DraftsCreated:   1,
		Actions: []audit.ActionRecord{
			{MessageID: "m1", Category: mail.CategoryActionRequired},
			{MessageID: "m2", Category: mail.CategoryActionRequired},
			{MessageID: "m3", Category: mail.CategoryNewsletter},
			{MessageID: "m4", Category: mail.CategorySpam},
		},
		Errors: []audit.CycleError{{MessageID: "m4", Stage: "label", Error: "boom"}},
	}

	want := "Processed 4 emails in 12.3s:\n" +
		"  action_required: 2\n" +
		"  newsletter: 1\n" +
		"  spam: 1\n" +
		"  Tasks created: 2\n" +
		"  Drafts created: 1\n" +
		"  Errors: 1"
	assert.Equal(t, want, r.Summary())
}

func TestDueDate(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, now, dueDate(now, mail.PriorityUrgent))
	assert.Equal(t, now.AddDate(0, 0, 1), dueDate(now, mail.PriorityHigh))
	assert.Equal(t, now.AddDate(0, 0, 3), dueDate(now, mail.PriorityNormal))
	assert.Equal(t, now.AddDate(0, 0, 7), dueDate(now, mail.PriorityLow))
	assert.Equal(t, now.AddDate(0, 0, 3), dueDate(now, mail.Priority("")), "unknown priority defaults to normal window")
}

package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/inboxpilot/internal/mail"
)

func TestEmailTaskTitle(t *testing.T) {
	et := EmailTask{
		Message: mail.Message{
			Subject: "Quarterly numbers",
			Sender:  mail.Address{Email: "boss@example.com"},
		},
		Analysis: mail.Analysis{Priority: mail.PriorityHigh},
	}

	assert.Equal(t, "[HIGH] Action: Quarterly numbers (from boss@example.com)", et.Title())
}

func TestEmailTaskTitleDefaults(t *testing.T) {
	et := EmailTask{
		Message: mail.Message{Sender: mail.Address{Email: "boss@example.com"}},
	}

	assert.Equal(t, "[NORMAL] Action: (no subject) (from boss@example.com)", et.Title())
}

func TestEmailTaskTitleTruncatesSubject(t *testing.T) {
	et := EmailTask{
		Message: mail.Message{
			Subject: strings.Repeat("x", 200),
			Sender:  mail.Address{Email: "boss@example.com"},
		},
		Analysis: mail.Analysis{Priority: mail.PriorityUrgent},
	}

	title := et.Title()
	assert.Contains(t, title, strings.Repeat("x", 80))
	assert.NotContains(t, title, strings.Repeat("x", 81))
}

func TestEmailTaskNotes(t *testing.T) {
	et := EmailTask{
		Message: mail.Message{
			ID:      "m1",
			Subject: "Quarterly numbers",
			Sender:  mail.Address{Name: "Boss", Email: "boss@example.com"},
			Date:    time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC),
		},
		Analysis: mail.Analysis{
			Summary:         "Needs the Q3 figures by Friday",
			SuggestedAction: "Send the latest spreadsheet",
			VIP:             true,
		},
	}

	notes := et.Notes()
	assert.Contains(t, notes, "From: Boss <boss@example.com>")
	assert.Contains(t, notes, "Subject: Quarterly numbers")
	assert.Contains(t, notes, "Summary: Needs the Q3 figures by Friday")
	assert.Contains(t, notes, "Suggested action: Send the latest spreadsheet")
	assert.Contains(t, notes, "VIP sender")
	assert.Contains(t, notes, "Message ID: m1")
}

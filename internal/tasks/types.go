package tasks

import (
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/mail"
)

// DefaultListTitle is the task list the agent files email tasks into.
const DefaultListTitle = "InboxPilot"

// maxTitleSubject bounds the subject portion of a task title.
const maxTitleSubject = 80

// EmailTask describes the task to create for one actionable email.
type EmailTask struct {
	Message  mail.Message
	Analysis mail.Analysis
	Due      time.Time
}

// Title renders the task title, e.g.
// "[HIGH] Action: Quarterly numbers (from boss@example.com)".
func (t EmailTask) Title() string {
	priority := string(t.Analysis.Priority)
	if priority == "" {
		priority = string(mail.PriorityNormal)
	}

	subject := t.Message.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	subject = mail.Truncate(subject, maxTitleSubject)

	return "[" + strings.ToUpper(priority) + "] Action: " + subject +
		" (from " + t.Message.Sender.Email + ")"
}

// Notes renders the task notes block.
func (t EmailTask) Notes() string {
	var b strings.Builder
	b.WriteString("From: " + t.Message.Sender.String() + "\n")
	b.WriteString("Subject: " + t.Message.Subject + "\n")
	if !t.Message.Date.IsZero() {
		b.WriteString("Received: " + t.Message.Date.Format(time.RFC1123) + "\n")
	}
	b.WriteString("\n")
	if t.Analysis.Summary != "" {
		b.WriteString("Summary: " + t.Analysis.Summary + "\n")
	}
	if t.Analysis.SuggestedAction != "" {
		b.WriteString("Suggested action: " + t.Analysis.SuggestedAction + "\n")
	}
	if t.Analysis.VIP {
		b.WriteString("VIP sender\n")
	}
	b.WriteString("\nMessage ID: " + t.Message.ID)
	return b.String()
}

package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/mail"
)

// Briefing is one generated morning briefing.
type Briefing struct {
	UserID              string    `json:"user_id"`
	Date                time.Time `json:"date"`
	TotalUnread         int       `json:"total_unread"`
	UrgentCount         int       `json:"urgent_count"`
	ActionRequiredCount int       `json:"action_required_count"`
	FullText            string    `json:"full_text"`
	EmailsAnalyzed      int       `json:"emails_analyzed"`
	ProcessingSeconds   float64   `json:"processing_time_seconds"`
}

// Briefer renders daily briefings from analyzed mail.
type Briefer struct {
	model  ModelClient
	logger *slog.Logger
	now    func() time.Time
}

// NewBriefer builds a briefer over the given model client.
func NewBriefer(model ModelClient, logger *slog.Logger) *Briefer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Briefer{model: model, logger: logger, now: time.Now}
}

// Generate writes the briefing for a batch of analyzed messages. A model
// failure yields a briefing whose text names the failure rather than an
// error, so the scheduled job always produces output.
func (b *Briefer) Generate(ctx context.Context, userID, userName string, batch []mail.Annotated) *Briefing {
	start := b.now()

	var urgent, high, action, fyi, newsletters int
	for _, m := range batch {
		switch m.Analysis.Priority {
		case mail.PriorityUrgent:
			urgent++
		case mail.PriorityHigh:
			high++
		}
		switch m.Analysis.Category {
		case mail.CategoryActionRequired:
			action++
		case mail.CategoryFYI:
			fyi++
		case mail.CategoryNewsletter, mail.CategoryPromotional:
			newsletters++
		}
	}

	briefing := &Briefing{
		UserID:              userID,
		Date:                start,
		TotalUnread:         len(batch),
		UrgentCount:         urgent,
		ActionRequiredCount: action,
		EmailsAnalyzed:      len(batch),
	}

	greeting := "there"
	if userName != "" {
		greeting = strings.Fields(userName)[0]
	}

	prompt := fmt.Sprintf(`Write the morning email briefing for %s.

Today is %s.

Here are the %d unread emails, already analyzed:

%s

Summary:
- %d URGENT emails
- %d HIGH priority emails
- %d emails requiring action
- %d FYI/informational emails
- %d newsletters/promotions

Write the briefing with these sections:
1. **Quick Status** — one line: how many emails, how many need attention
2. **Urgent** — list urgent emails with who, what, and suggested action (skip if none)
3. **Action Required** — list emails needing a response (skip if none)
4. **FYI** — brief summary of informational emails (keep short)
5. **Newsletters** — one-line summary (keep short)
6. **Recommended Actions** — numbered list of specific things to do right now

Keep the whole briefing under 500 words. Be specific about names and subjects.`,
		greeting, start.Format("Monday, January 2"), len(batch), briefingContext(batch),
		urgent, high, action, fyi, newsletters)

	text, err := b.model.Complete(ctx, ModelRequest{
		Tier:   TierDeep,
		System: briefingSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		b.logger.Error("briefing generation failed", logging.Err(err))
		briefing.FullText = fmt.Sprintf("Error generating briefing: %v", err)
		briefing.EmailsAnalyzed = 0
		return briefing
	}

	briefing.FullText = strings.TrimSpace(text)
	briefing.ProcessingSeconds = b.now().Sub(start).Seconds()
	return briefing
}

// briefingContext renders the analyzed batch compactly for the prompt.
func briefingContext(batch []mail.Annotated) string {
	var lines []string
	for i, m := range batch {
		summary := m.Analysis.Summary
		if summary == "" {
			summary = mail.Truncate(m.Message.Snippet, 150)
		}
		suggested := m.Analysis.SuggestedAction
		if suggested == "" {
			suggested = "none"
		}
		sender := m.Message.Sender.Name
		if sender == "" {
			sender = m.Message.Sender.Email
		}
		lines = append(lines, fmt.Sprintf(
			"%d. [%s] From: %s <%s>\n   Subject: %s\n   Summary: %s\n   Category: %s\n   Suggested Action: %s",
			i+1, priorityOrUnknown(m.Analysis.Priority), sender, m.Message.Sender.Email,
			m.Message.Subject, summary, categoryOrUnknown(m.Analysis.Category), suggested))
	}
	return strings.Join(lines, "\n\n")
}

func priorityOrUnknown(p mail.Priority) string {
	if p == "" {
		return "unknown"
	}
	return string(p)
}

func categoryOrUnknown(c mail.Category) string {
	if c == "" {
		return "unknown"
	}
	return string(c)
}

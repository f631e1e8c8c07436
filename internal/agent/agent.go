package agent

import (
	"context"

	"github.com/teemow/inboxpilot/internal/brain"
	"github.com/teemow/inboxpilot/internal/contacts"
	"github.com/teemow/inboxpilot/internal/drafts"
	"github.com/teemow/inboxpilot/internal/mail"
	"github.com/teemow/inboxpilot/internal/tasks"
)

// Mailbox is the slice of Gmail the orchestrator needs.
type Mailbox interface {
	FetchUnread(ctx context.Context, maxResults int64, filter func(id string) bool, bodyLimit int) ([]mail.Message, error)
	ApplyLabel(ctx context.Context, messageID, name string) error
	CreateReplyDraft(ctx context.Context, threadID, to, subject, body string) (string, error)
}

// TaskCreator files tasks for actionable emails.
type TaskCreator interface {
	CreateEmailTask(ctx context.Context, t tasks.EmailTask) (string, error)
}

// Enricher looks up what the address book knows about a sender.
type Enricher interface {
	Lookup(ctx context.Context, email string) (*contacts.Contact, error)
}

// Analyzer classifies a batch of messages.
type Analyzer interface {
	Analyze(ctx context.Context, batch []mail.Message, vips []string) []mail.Annotated
}

// Drafter generates one reply draft.
type Drafter interface {
	DraftReply(ctx context.Context, req brain.DraftRequest) *drafts.Draft
}

// Clients builds per-account service clients. Implementations are
// expected to authenticate lazily and may cache clients per account.
type Clients interface {
	Mailbox(ctx context.Context, account string) (Mailbox, error)
	Tasks(ctx context.Context, account string) (TaskCreator, error)
	Contacts(ctx context.Context, account string) (Enricher, error)
}

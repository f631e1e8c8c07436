package briefing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxpilot/internal/agent"
	"github.com/teemow/inboxpilot/internal/brain"
	"github.com/teemow/inboxpilot/internal/mail"
	"github.com/teemow/inboxpilot/internal/users"
)

type stubDirectory struct {
	user *users.User
}

func (d *stubDirectory) Get(_ context.Context, id string) (*users.User, error) {
	if d.user == nil || d.user.ID != id {
		return nil, users.ErrNotFound
	}
	return d.user, nil
}

func (d *stubDirectory) List(_ context.Context) ([]*users.User, error) {
	if d.user == nil {
		return nil, nil
	}
	return []*users.User{d.user}, nil
}

type stubMailbox struct {
	messages []mail.Message
	gotMax   int64
}

func (m *stubMailbox) FetchUnread(_ context.Context, maxResults int64, filter func(string) bool, _ int) ([]mail.Message, error) {
	m.gotMax = maxResults
	if filter != nil {
		return nil, errors.New("briefing fetch must not filter")
	}
	return m.messages, nil
}

func (m *stubMailbox) ApplyLabel(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (m *stubMailbox) CreateReplyDraft(context.Context, string, string, string, string) (string, error) {
	return "", errors.New("not implemented")
}

type stubClients struct {
	mailbox *stubMailbox
}

func (c *stubClients) Mailbox(context.Context, string) (agent.Mailbox, error) {
	return c.mailbox, nil
}

func (c *stubClients) Tasks(context.Context, string) (agent.TaskCreator, error) {
	return nil, errors.New("not implemented")
}

func (c *stubClients) Contacts(context.Context, string) (agent.Enricher, error) {
	return nil, errors.New("not implemented")
}

type passthroughAnalyzer struct {
	gotVIPs []string
}

func (a *passthroughAnalyzer) Analyze(_ context.Context, batch []mail.Message, vips []string) []mail.Annotated {
	a.gotVIPs = vips
	out := make([]mail.Annotated, len(batch))
	for i, m := range batch {
		out[i] = mail.Annotated{Message: m, Analysis: mail.Analysis{Priority: mail.PriorityNormal, Category: mail.CategoryFYI}}
	}
	return out
}

type stubBriefer struct {
	gotBatch []mail.Annotated
}

func (b *stubBriefer) Generate(_ context.Context, userID, _ string, batch []mail.Annotated) *brain.Briefing {
	b.gotBatch = batch
	return &brain.Briefing{
		UserID:      userID,
		Date:        time.Date(2026, 2, 10, 7, 0, 0, 0, time.UTC),
		TotalUnread: len(batch),
		FullText:    "briefing text",
	}
}

func TestServiceRun(t *testing.T) {
	user := &users.User{
		ID:   "alice",
		Name: "Alice Example",
		Accounts: []users.ConnectedAccount{
			{Provider: "google", Email: "alice@example.com", Active: true},
		},
		Settings: users.Settings{VIPContacts: []string{"boss@corp.com"}},
	}
	mailbox := &stubMailbox{messages: []mail.Message{
		{ID: "m1", Account: "alice@example.com", Subject: "Hello"},
		{ID: "m2", Account: "alice@example.com", Subject: "World"},
	}}
	analyzer := &passthroughAnalyzer{}
	briefer := &stubBriefer{}
	store := NewFileStore(t.TempDir())

	svc := NewService(&stubDirectory{user: user}, &stubClients{mailbox: mailbox}, analyzer, briefer, store, nil, agent.Config{})

	briefing, err := svc.Run(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, briefing)

	assert.Equal(t, 2, briefing.TotalUnread)
	assert.Len(t, briefer.gotBatch, 2)
	assert.Equal(t, []string{"boss@corp.com"}, analyzer.gotVIPs)
	assert.Equal(t, int64(agent.DefaultMaxEmailsPerFetch), mailbox.gotMax)

	stored, err := store.Latest(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "briefing text", stored.FullText)
}

func TestServiceRunUnknownUser(t *testing.T) {
	svc := NewService(&stubDirectory{}, &stubClients{}, &passthroughAnalyzer{}, &stubBriefer{}, NewFileStore(t.TempDir()), nil, agent.Config{})

	_, err := svc.Run(context.Background(), "ghost")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestServiceRunNoActiveAccounts(t *testing.T) {
	user := &users.User{
		ID:       "bob",
		Accounts: []users.ConnectedAccount{{Provider: "google", Email: "bob@example.com", Active: false}},
	}
	svc := NewService(&stubDirectory{user: user}, &stubClients{}, &passthroughAnalyzer{}, &stubBriefer{}, NewFileStore(t.TempDir()), nil, agent.Config{})

	_, err := svc.Run(context.Background(), "bob")
	assert.Error(t, err)
}

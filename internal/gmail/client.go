package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxpilot/internal/google"
	"github.com/teemow/inboxpilot/internal/mail"
)

// Client wraps the Gmail Users service for one account.
type Client struct {
	svc     *gmail.UsersService
	account string

	mu     sync.Mutex
	labels map[string]string // label name -> id, filled lazily
}

// Account returns the account this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a Gmail client authenticated as account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
		labels:  make(map[string]string),
	}, nil
}

// FetchUnread returns up to maxResults unread inbox messages, normalized.
// Messages the filter rejects are skipped without being fetched in full;
// a message that cannot be parsed is skipped, not fatal.
func (c *Client) FetchUnread(ctx context.Context, maxResults int64, filter func(id string) bool, bodyLimit int) ([]mail.Message, error) {
	res, err := c.svc.Messages.List("me").
		Q("is:unread in:inbox").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	var out []mail.Message
	for _, ref := range res.Messages {
		if filter != nil && !filter(ref.Id) {
			continue
		}
		full, err := c.svc.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			continue
		}
		msg, err := Normalize(full, c.account, bodyLimit)
		if err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// ApplyLabel attaches the named label to a message, creating the label on
// first use. Nested names like "InboxPilot/FYI" are created as Gmail
// nested labels.
func (c *Client) ApplyLabel(ctx context.Context, messageID, name string) error {
	id, err := c.labelID(ctx, name)
	if err != nil {
		return err
	}
	_, err = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{id},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to apply label %q: %w", name, err)
	}
	return nil
}

// MarkRead removes the UNREAD label from a message.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// CreateReplyDraft stores a reply draft in the account's mailbox, threaded
// onto the original message.
func (c *Client) CreateReplyDraft(ctx context.Context, threadID, to, subject, body string) (string, error) {
	raw := buildReply(c.account, to, subject, body)
	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{
			ThreadId: threadID,
			Raw:      base64.URLEncoding.EncodeToString([]byte(raw)),
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}
	return draft.Id, nil
}

// labelID resolves a label name to its id, creating the label if needed.
func (c *Client) labelID(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.labels[name]; ok {
		return id, nil
	}

	if len(c.labels) == 0 {
		res, err := c.svc.Labels.List("me").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("failed to list labels: %w", err)
		}
		for _, l := range res.Labels {
			c.labels[l.Name] = l.Id
		}
		if id, ok := c.labels[name]; ok {
			return id, nil
		}
	}

	created, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}
	c.labels[name] = created.Id
	return created.Id, nil
}

// buildReply renders an RFC 2822 reply message.
func buildReply(from, to, subject, body string) string {
	return "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body
}

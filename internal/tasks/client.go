package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/inboxpilot/internal/google"
)

// Client wraps the Google Tasks service for one account.
type Client struct {
	svc     *tasks.Service
	account string

	mu     sync.Mutex
	listID string // cached id of the agent's task list
}

// Account returns the account this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a Tasks client authenticated as account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// EnsureList resolves the agent's task list, creating it on first use.
func (c *Client) EnsureList(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listID != "" {
		return c.listID, nil
	}

	result, err := c.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list task lists: %w", err)
	}
	for _, tl := range result.Items {
		if tl.Title == DefaultListTitle {
			c.listID = tl.Id
			return c.listID, nil
		}
	}

	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: DefaultListTitle}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create task list: %w", err)
	}
	c.listID = created.Id
	return c.listID, nil
}

// CreateEmailTask files a task for one actionable email and returns the
// created task id.
func (c *Client) CreateEmailTask(ctx context.Context, et EmailTask) (string, error) {
	listID, err := c.EnsureList(ctx)
	if err != nil {
		return "", err
	}

	t := &tasks.Task{
		Title: et.Title(),
		Notes: et.Notes(),
	}
	if !et.Due.IsZero() {
		t.Due = et.Due.Format(time.RFC3339)
	}

	created, err := c.svc.Tasks.Insert(listID, t).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}
	return created.Id, nil
}

package contacts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"

	"github.com/teemow/inboxpilot/internal/google"
)

// Client wraps the People service for one account. Lookup results and
// the contact-group name table are cached for the client's lifetime.
type Client struct {
	svc     *people.Service
	account string

	mu         sync.Mutex
	groupNames map[string]string // resource name -> display name
	cache      map[string]*Contact
}

// Account returns the account this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a People client authenticated as account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := people.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &Client{
		svc:        svc,
		account:    account,
		groupNames: make(map[string]string),
		cache:      make(map[string]*Contact),
	}, nil
}

// Lookup finds the contact for an email address. A nil contact with a
// nil error means the address book has no entry.
func (c *Client) Lookup(ctx context.Context, email string) (*Contact, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return nil, nil
	}

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	res, err := c.svc.People.SearchContacts().
		Query(key).
		ReadMask("names,emailAddresses,organizations,memberships").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}

	contact := c.match(ctx, key, res.Results)

	c.mu.Lock()
	c.cache[key] = contact
	c.mu.Unlock()
	return contact, nil
}

// ClearCache drops all cached lookups, forcing fresh reads.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string]*Contact)
	c.groupNames = make(map[string]string)
	c.mu.Unlock()
}

// match picks the result whose email matches exactly and converts it.
func (c *Client) match(ctx context.Context, email string, results []*people.SearchResult) *Contact {
	for _, r := range results {
		if r.Person == nil {
			continue
		}
		for _, e := range r.Person.EmailAddresses {
			if strings.EqualFold(e.Value, email) {
				return c.convert(ctx, r.Person)
			}
		}
	}
	return nil
}

func (c *Client) convert(ctx context.Context, p *people.Person) *Contact {
	contact := &Contact{}

	if len(p.Names) > 0 {
		contact.Name = p.Names[0].DisplayName
	}
	if len(p.Organizations) > 0 {
		contact.Company = p.Organizations[0].Name
		contact.JobTitle = p.Organizations[0].Title
	}

	var groups []string
	for _, m := range p.Memberships {
		if m.ContactGroupMembership == nil {
			continue
		}
		if name := c.groupName(ctx, m.ContactGroupMembership.ContactGroupResourceName); name != "" {
			groups = append(groups, name)
		}
	}
	contact.Relationship = deriveRelationship(groups)

	return contact
}

// groupName resolves a contact group resource name to its display name,
// loading the group table on first use. Failure just leaves the
// relationship underived.
func (c *Client) groupName(ctx context.Context, resourceName string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.groupNames) == 0 {
		res, err := c.svc.ContactGroups.List().Context(ctx).Do()
		if err != nil {
			return ""
		}
		for _, g := range res.ContactGroups {
			c.groupNames[g.ResourceName] = g.Name
		}
	}
	return c.groupNames[resourceName]
}

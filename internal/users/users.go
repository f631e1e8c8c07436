package users

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Directory.Get for unknown user ids.
var ErrNotFound = errors.New("user not found")

// ConnectedAccount is one mailbox a user has linked to the agent.
type ConnectedAccount struct {
	Provider    string `json:"provider"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Active      bool   `json:"active"`
}

// Settings shapes how a user's mail is handled.
type Settings struct {
	// VIPContacts are sender addresses always treated as important.
	VIPContacts []string `json:"vip_contacts,omitempty"`
	// AutoDraftContacts are senders for whom reply drafts may be
	// prepared without the user asking.
	AutoDraftContacts []string `json:"auto_draft_contacts,omitempty"`
	// DraftTone steers generated replies, e.g. "professional".
	DraftTone string `json:"draft_tone,omitempty"`
	// BriefingTime is the local HH:MM at which the daily briefing runs.
	BriefingTime string `json:"briefing_time,omitempty"`
	// BriefingTimezone is an IANA zone name for BriefingTime.
	BriefingTimezone string `json:"briefing_timezone,omitempty"`
}

// User is one person the agent works for.
type User struct {
	ID       string             `json:"id"`
	Name     string             `json:"name,omitempty"`
	Accounts []ConnectedAccount `json:"accounts"`
	Settings Settings           `json:"settings"`
}

// ActiveAccounts returns the subset of accounts the agent may touch.
func (u User) ActiveAccounts() []ConnectedAccount {
	var active []ConnectedAccount
	for _, a := range u.Accounts {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}

// IsVIP reports whether sender is on the user's VIP list. Matching is
// case-insensitive on the address.
func (s Settings) IsVIP(sender string) bool {
	return containsFold(s.VIPContacts, sender)
}

// AllowsAutoDraft reports whether replies to sender may be drafted
// without being asked.
func (s Settings) AllowsAutoDraft(sender string) bool {
	return containsFold(s.AutoDraftContacts, sender)
}

func containsFold(list []string, addr string) bool {
	for _, c := range list {
		if strings.EqualFold(c, addr) {
			return true
		}
	}
	return false
}

// Directory resolves user ids to users.
type Directory interface {
	// Get returns the user or ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)
	// List returns every known user, in a stable order.
	List(ctx context.Context) ([]*User, error)
}

package users

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterJSON = `{
  "users": [
    {
      "id": "bob",
      "name": "Bob",
      "accounts": [
        {"provider": "gmail", "email": "bob@example.com", "active": true}
      ],
      "settings": {}
    },
    {
      "id": "alice",
      "name": "Alice",
      "accounts": [
        {"provider": "gmail", "email": "alice@example.com", "active": true},
        {"provider": "gmail", "email": "old@example.com", "active": false}
      ],
      "settings": {
        "vip_contacts": ["Boss@example.com"],
        "auto_draft_contacts": ["peer@example.com"],
        "draft_tone": "friendly",
        "briefing_time": "07:30",
        "briefing_timezone": "Europe/Berlin"
      }
    }
  ]
}`

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileDirectoryGet(t *testing.T) {
	dir, err := NewFileDirectory(writeRoster(t, rosterJSON))
	require.NoError(t, err)

	u, err := dir.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Len(t, u.Accounts, 2)
	assert.Equal(t, "friendly", u.Settings.DraftTone)
}

func TestFileDirectoryGetUnknown(t *testing.T) {
	dir, err := NewFileDirectory(writeRoster(t, rosterJSON))
	require.NoError(t, err)

	_, err = dir.Get(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileDirectoryListOrdered(t *testing.T) {
	dir, err := NewFileDirectory(writeRoster(t, rosterJSON))
	require.NoError(t, err)

	list, err := dir.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].ID)
	assert.Equal(t, "bob", list[1].ID)
}

func TestFileDirectoryRejectsDuplicateIDs(t *testing.T) {
	_, err := NewFileDirectory(writeRoster(t,
		`{"users": [{"id": "a", "accounts": []}, {"id": "a", "accounts": []}]}`))
	assert.Error(t, err)
}

func TestActiveAccounts(t *testing.T) {
	u := User{Accounts: []ConnectedAccount{
		{Email: "a@example.com", Active: true},
		{Email: "b@example.com", Active: false},
	}}

	active := u.ActiveAccounts()
	require.Len(t, active, 1)
	assert.Equal(t, "a@example.com", active[0].Email)
}

func TestSettingsMatchingIsCaseInsensitive(t *testing.T) {
	s := Settings{
		VIPContacts:       []string{"Boss@Example.com"},
		AutoDraftContacts: []string{"peer@example.com"},
	}

	assert.True(t, s.IsVIP("boss@example.com"))
	assert.False(t, s.IsVIP("stranger@example.com"))
	assert.True(t, s.AllowsAutoDraft("PEER@example.com"))
	assert.False(t, s.AllowsAutoDraft("boss@example.com"))
}

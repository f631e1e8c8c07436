package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/users"
)

type scriptedRunner struct {
	results map[string]*CycleResult
	panics  map[string]bool
	ran     []string
}

func (r *scriptedRunner) RunCycle(_ context.Context, userID string) *CycleResult {
	r.ran = append(r.ran, userID)
	if r.panics[userID] {
		panic("boom in " + userID)
	}
	if res, ok := r.results[userID]; ok {
		return res
	}
	return &CycleResult{UserID: userID, Status: StatusOK}
}

func activeUser(id string) *users.User {
	return &users.User{
		ID:       id,
		Accounts: []users.ConnectedAccount{{Provider: "google", Email: id + "@example.com", Active: true}},
	}
}

func TestFleetRun(t *testing.T) {
	directory := &fakeDirectory{users: map[string]*users.User{
		"alice": activeUser("alice"),
		"bob": {
			ID:       "bob",
			Accounts: []users.ConnectedAccount{{Provider: "google", Email: "bob@example.com", Active: false}},
		},
		"carol": activeUser("carol"),
	}}
	runner := &scriptedRunner{results: map[string]*CycleResult{
		"alice": {UserID: "alice", Status: StatusOK, EmailsProcessed: 3},
		"carol": {UserID: "carol", Status: StatusOK, EmailsProcessed: 2},
	}}
	recorder := &memAudit{}

	fleet := NewFleet(runner, directory, recorder, nil, nil)
	entry, err := fleet.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "carol"}, runner.ran, "inactive users are skipped entirely")
	assert.Equal(t, 2, entry.UsersProcessed)
	assert.Equal(t, 5, entry.TotalEmails)
	assert.Zero(t, entry.Failures)
	require.Len(t, entry.Users, 2)
	assert.Equal(t, audit.UserOutcome{UserID: "alice", Status: "ok", EmailsProcessed: 3}, entry.Users[0])

	require.Len(t, recorder.fleets, 1)
	assert.Equal(t, 2, recorder.fleets[0].UsersProcessed)
}

func TestFleetRunContainsPanic(t *testing.T) {
	directory := &fakeDirectory{users: map[string]*users.User{
		"alice": activeUser("alice"),
		"carol": activeUser("carol"),
	}}
	runner := &scriptedRunner{
		results: map[string]*CycleResult{
			"carol": {UserID: "carol", Status: StatusOK, EmailsProcessed: 1},
		},
		panics: map[string]bool{"alice": true},
	}
	recorder := &memAudit{}

	fleet := NewFleet(runner, directory, recorder, nil, nil)
	entry, err := fleet.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "carol"}, runner.ran, "one panic must not stop the fleet")
	assert.Equal(t, 1, entry.Failures)
	assert.Equal(t, 2, entry.UsersProcessed)
	require.Len(t, entry.Users, 2)
	assert.Equal(t, "failed", entry.Users[0].Status)
	assert.Equal(t, 1, entry.Users[0].Errors)
	assert.Equal(t, "ok", entry.Users[1].Status)
}

func TestFleetRunDirectoryError(t *testing.T) {
	fleet := NewFleet(&scriptedRunner{}, failingDirectory{}, &memAudit{}, nil, nil)

	_, err := fleet.Run(context.Background())
	assert.Error(t, err)
}

type failingDirectory struct{}

func (failingDirectory) Get(context.Context, string) (*users.User, error) {
	return nil, errors.New("directory down")
}

func (failingDirectory) List(context.Context) ([]*users.User, error) {
	return nil, errors.New("directory down")
}

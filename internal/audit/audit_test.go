package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxpilot/internal/mail"
)

func cycleEntry(user string, end time.Time) CycleEntry {
	return CycleEntry{
		UserID:          user,
		CycleStart:      end.Add(-30 * time.Second),
		CycleEnd:        end,
		ElapsedSeconds:  30,
		EmailsProcessed: 2,
		Errors:          []CycleError{},
		Actions: []ActionRecord{
			{
				MessageID: "m1",
				Sender:    "boss@example.com",
				Subject:   "Quarterly numbers",
				Priority:  mail.PriorityHigh,
				Category:  mail.CategoryActionRequired,
				Actions:   []SubAction{SubActionLabeled, SubActionTaskCreated},
				Timestamp: end,
			},
		},
		Summary: "Processed 2 emails",
	}
}

func TestFileRecorderCycleRoundTrip(t *testing.T) {
	rec := NewFileRecorder(t.TempDir())
	ctx := context.Background()
	end := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	require.NoError(t, rec.RecordCycle(ctx, cycleEntry("alice", end)))
	require.NoError(t, rec.RecordCycle(ctx, cycleEntry("alice", end.Add(time.Hour))))

	latest, err := rec.LatestCycle(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, end.Add(time.Hour), latest.CycleEnd)
	require.Len(t, latest.Actions, 1)
	assert.Equal(t, []SubAction{SubActionLabeled, SubActionTaskCreated}, latest.Actions[0].Actions)
}

func TestFileRecorderLatestCycleIsPerUser(t *testing.T) {
	rec := NewFileRecorder(t.TempDir())
	ctx := context.Background()
	end := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	require.NoError(t, rec.RecordCycle(ctx, cycleEntry("alice", end)))

	latest, err := rec.LatestCycle(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestFileRecorderFleetRoundTrip(t *testing.T) {
	rec := NewFileRecorder(t.TempDir())
	ctx := context.Background()

	first := FleetEntry{
		Timestamp:      time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
		UsersProcessed: 2,
		TotalEmails:    5,
	}
	second := FleetEntry{
		Timestamp:      first.Timestamp.Add(time.Hour),
		UsersProcessed: 2,
		TotalEmails:    1,
		Failures:       1,
		Users: []UserOutcome{
			{UserID: "alice", Status: "ok", EmailsProcessed: 1},
			{UserID: "bob", Status: "failed", Errors: 1},
		},
	}
	require.NoError(t, rec.RecordFleet(ctx, first))
	require.NoError(t, rec.RecordFleet(ctx, second))

	latest, err := rec.LatestFleet(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 1, latest.Failures)
	require.Len(t, latest.Users, 2)
	assert.Equal(t, "bob", latest.Users[1].UserID)
}

func TestFileRecorderEmptyDir(t *testing.T) {
	rec := NewFileRecorder(t.TempDir() + "/never-created")
	ctx := context.Background()

	fleet, err := rec.LatestFleet(ctx)
	require.NoError(t, err)
	assert.Nil(t, fleet)

	cycle, err := rec.LatestCycle(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, cycle)
}

type failingRecorder struct{}

func (failingRecorder) RecordCycle(context.Context, CycleEntry) error {
	return errors.New("connection refused")
}

func (failingRecorder) RecordFleet(context.Context, FleetEntry) error {
	return errors.New("connection refused")
}

func TestFallbackDegradesToSecondary(t *testing.T) {
	dir := t.TempDir()
	falls := 0
	rec := NewFallback(failingRecorder{}, NewFileRecorder(dir), nil, func() { falls++ })
	ctx := context.Background()
	end := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	require.NoError(t, rec.RecordCycle(ctx, cycleEntry("alice", end)))
	require.NoError(t, rec.RecordFleet(ctx, FleetEntry{Timestamp: end}))
	assert.Equal(t, 2, falls)

	file := NewFileRecorder(dir)
	latest, err := file.LatestCycle(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, latest)
}

package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorePutAssignsDefaults(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	d := &Draft{UserID: "alice", MessageID: "m1", To: "boss@example.com", Body: "hi"}
	require.NoError(t, store.Put(ctx, d))

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, SeverityNone, d.SafetySeverity)
	assert.False(t, d.CreatedAt.IsZero())

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Body, got.Body)
	assert.Equal(t, d.UserID, got.UserID)
}

func TestFileStoreGetUnknown(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreSetStatus(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	d := &Draft{UserID: "alice", MessageID: "m1"}
	require.NoError(t, store.Put(ctx, d))
	require.NoError(t, store.SetStatus(ctx, d.ID, StatusApproved))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	err = store.SetStatus(ctx, "missing", StatusRejected)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreListFiltersAndOrders(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	older := &Draft{UserID: "alice", MessageID: "m1", CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &Draft{UserID: "alice", MessageID: "m2"}
	other := &Draft{UserID: "bob", MessageID: "m3"}
	require.NoError(t, store.Put(ctx, older))
	require.NoError(t, store.Put(ctx, newer))
	require.NoError(t, store.Put(ctx, other))

	list, err := store.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].MessageID)
	assert.Equal(t, "m1", list[1].MessageID)
}

func TestFileStoreListEmptyDir(t *testing.T) {
	store := NewFileStore(t.TempDir() + "/never-created")

	list, err := store.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

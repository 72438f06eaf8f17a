package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenMigratesSchema(t *testing.T) {
	store := openTestStore(t)

	events, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, Event{
		Action:    ActionPublish,
		SnippetID: "aa11bb22",
		Name:      "Go Testing Tips",
		Repo:      "personal",
		CreatedAt: base,
	}))
	require.NoError(t, store.Record(ctx, Event{
		Action:    ActionInstall,
		SnippetID: "aa11bb22",
		Name:      "Go Testing Tips",
		Target:    "CLAUDE.md",
		Repo:      "personal",
		CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, store.Record(ctx, Event{
		Action:    ActionUninstall,
		SnippetID: "aa11bb22",
		Name:      "Go Testing Tips",
		Target:    "CLAUDE.md",
		Repo:      "personal",
		CreatedAt: base.Add(2 * time.Minute),
	}))

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, ActionUninstall, events[0].Action)
	assert.Equal(t, ActionInstall, events[1].Action)
	assert.Equal(t, ActionPublish, events[2].Action)

	assert.Equal(t, "aa11bb22", events[0].SnippetID)
	assert.Equal(t, "Go Testing Tips", events[0].Name)
	assert.Equal(t, "CLAUDE.md", events[0].Target)
	assert.Equal(t, "personal", events[0].Repo)
	assert.True(t, events[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Event{
			Action:    ActionInstall,
			SnippetID: "aa11bb22",
			Name:      "Go Testing Tips",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	events, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
}

func TestRecentTieBreaksOnInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	ts := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, Event{Action: ActionInstall, SnippetID: "aa11bb22", CreatedAt: ts}))
	require.NoError(t, store.Record(ctx, Event{Action: ActionUninstall, SnippetID: "aa11bb22", CreatedAt: ts}))

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionUninstall, events[0].Action)
}

func TestRecordFillsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Record(ctx, Event{Action: ActionInstall, SnippetID: "aa11bb22"}))

	events, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.WithinDuration(t, time.Now().UTC(), events[0].CreatedAt, 10*time.Second)
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store
	store.TryRecord(context.Background(), Event{Action: ActionInstall})
	assert.NoError(t, store.Close())
}

func TestReopenKeepsEvents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, Event{Action: ActionPublish, SnippetID: "aa11bb22", Name: "Go Testing Tips"}))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Go Testing Tips", events[0].Name)
}

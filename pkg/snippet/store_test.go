package snippet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipmd/snipmd/pkg/idgen"
)

func sequentialGen() idgen.Generator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%06d", n)
	}
}

func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	start := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	return NewStore(t.TempDir(), WithGenerator(sequentialGen()), WithClock(tickingClock(start)))
}

func TestPublishWritesFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snip, err := store.Publish(ctx, PublishRequest{
		Name:    "Use Tabs",
		Content: "Always use tabs.\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "id000001", snip.ID)
	assert.Equal(t, filepath.Join(store.Dir(), "use-tabs-id000001.md"), snip.Path)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 1, 0, 0, time.UTC), snip.CreatedAt)

	data, err := os.ReadFile(snip.Path)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "Always use tabs.\n", decoded.Content)
}

func TestPublishDerivesName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snip, err := store.Publish(ctx, PublishRequest{
		Content: "Use tabs everywhere in Go code\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Use tabs everywhere in", snip.Name)
}

func TestGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	published, err := store.Publish(ctx, PublishRequest{
		Name:        "Error Handling",
		Description: "how to wrap errors",
		Content:     "Wrap errors with context.\n",
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
	assert.Equal(t, published.Name, got.Name)
	assert.Equal(t, published.Description, got.Description)
	assert.Equal(t, published.Content, got.Content)
	assert.True(t, published.CreatedAt.Equal(got.CreatedAt))
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Get(ctx, "missing0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := store.Publish(ctx, PublishRequest{Name: name, Content: name + "\n"})
		require.NoError(t, err)
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Third", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)
	assert.Equal(t, "First", all[2].Name)
}

func TestListMissingDirectory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "absent"))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListSkipsUndecodableAndForeignFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Publish(ctx, PublishRequest{Name: "Good", Content: "good\n"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "README.md"), []byte("# About\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("not markdown\n"), 0644))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Good", all[0].Name)
}

func TestListFindsNestedFiles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	nested := filepath.Join(store.Dir(), "golang")
	require.NoError(t, os.MkdirAll(nested, 0755))

	data, err := Encode(&Snippet{
		ID:        "deep0001",
		Name:      "Nested",
		Content:   "nested body\n",
		CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(nested, "nested-deep0001.md"), data, 0644))

	got, err := store.Get(ctx, "deep0001")
	require.NoError(t, err)
	assert.Equal(t, "Nested", got.Name)
}

func TestListSkipsGitDirectory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	gitDir := filepath.Join(store.Dir(), ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	data, err := Encode(&Snippet{ID: "hidden01", Name: "Hidden", Content: "x\n", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "hidden-hidden01.md"), data, 0644))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListMatching(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Publish(ctx, PublishRequest{Name: "Go Style", Content: "gofmt\n"})
	require.NoError(t, err)
	_, err = store.Publish(ctx, PublishRequest{Name: "Python Style", Content: "black\n"})
	require.NoError(t, err)

	matched, err := store.ListMatching(ctx, "go-*")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Go Style", matched[0].Name)

	matched, err = store.ListMatching(ctx, "*.md")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	matched, err = store.ListMatching(ctx, "**/*.md")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	_, err = store.ListMatching(ctx, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

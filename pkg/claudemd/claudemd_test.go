package claudemd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	scope, err := ParseScope("local")
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, scope)

	scope, err = ParseScope("user")
	require.NoError(t, err)
	assert.Equal(t, ScopeUser, scope)

	_, err = ParseScope("global")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global")
}

func TestResolveLocal(t *testing.T) {
	target, err := Resolve(ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, target.Scope)
	assert.Equal(t, "CLAUDE.md", target.Path)
}

func TestResolveUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	target, err := Resolve(ScopeUser)
	require.NoError(t, err)
	assert.Equal(t, ScopeUser, target.Scope)
	assert.Equal(t, filepath.Join(home, ".claude", "CLAUDE.md"), target.Path)
}

func TestReadMissingFile(t *testing.T) {
	target := Target{Scope: ScopeLocal, Path: filepath.Join(t.TempDir(), "CLAUDE.md")}

	assert.False(t, target.Exists())
	content, err := target.Read()
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestWriteThenRead(t *testing.T) {
	target := Target{Scope: ScopeLocal, Path: filepath.Join(t.TempDir(), "CLAUDE.md")}

	require.NoError(t, target.Write("# Notes\n\ncontent\n"))
	assert.True(t, target.Exists())

	content, err := target.Read()
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\ncontent\n", content)
}

func TestWriteCreatesParentDirectory(t *testing.T) {
	target := Target{
		Scope: ScopeUser,
		Path:  filepath.Join(t.TempDir(), ".claude", "CLAUDE.md"),
	}

	require.NoError(t, target.Write("content\n"))

	content, err := target.Read()
	require.NoError(t, err)
	assert.Equal(t, "content\n", content)
}

func TestWriteReplacesContent(t *testing.T) {
	dir := t.TempDir()
	target := Target{Scope: ScopeLocal, Path: filepath.Join(dir, "CLAUDE.md")}

	require.NoError(t, target.Write("first\n"))
	require.NoError(t, target.Write("second\n"))

	content, err := target.Read()
	require.NoError(t, err)
	assert.Equal(t, "second\n", content)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "CLAUDE.md", entries[0].Name())
}

func TestDiff(t *testing.T) {
	target := Target{Scope: ScopeLocal, Path: "CLAUDE.md"}

	diff := target.Diff("old line\n", "new line\n")
	assert.Contains(t, diff, "-old line")
	assert.Contains(t, diff, "+new line")
	assert.Contains(t, diff, "CLAUDE.md")

	assert.Empty(t, target.Diff("same\n", "same\n"))
}

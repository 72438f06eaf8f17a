package picker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStub installs a shell script that stands in for fzf.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fzf-stub")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func sampleItems() []Item {
	return []Item{
		{ID: "aa11bb22", Label: "Go Testing Tips", Content: "Use table tests.\nKeep cases small."},
		{ID: "cc33dd44", Label: "Shell Aliases", Content: "alias gs='git status'"},
		{ID: "ee55ff66", Label: "Commit Style", Content: "Write imperative subjects."},
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "short content unchanged",
			content:  "use table tests",
			expected: "use table tests",
		},
		{
			name:     "newlines flattened",
			content:  "line one\nline two",
			expected: "line one line two",
		},
		{
			name:     "long content truncated",
			content:  strings.Repeat("a", 60),
			expected: strings.Repeat("a", 50) + "...",
		},
		{
			name:     "exactly at the limit",
			content:  strings.Repeat("b", 50),
			expected: strings.Repeat("b", 50),
		},
		{
			name:     "truncation counts runes",
			content:  strings.Repeat("é", 60),
			expected: strings.Repeat("é", 50) + "...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPreview(tt.content))
		})
	}
}

func TestLine(t *testing.T) {
	item := Item{Label: "Go Testing Tips", Content: "first\nsecond"}
	assert.Equal(t, "Go Testing Tips▪first second", Line(item))
}

func TestParseSelection(t *testing.T) {
	assert.Equal(t, "Go Testing Tips", ParseSelection("Go Testing Tips▪first second\n"))
	assert.Equal(t, "plain text", ParseSelection("plain text"))
	assert.Equal(t, "", ParseSelection("  \n"))
}

func TestPickEmptyItems(t *testing.T) {
	p := &Picker{Bin: "fzf-that-should-never-run"}
	item, ok, err := p.Pick(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, item.ID)
}

func TestPickReturnsSelectedItem(t *testing.T) {
	p := &Picker{Bin: writeStub(t, "head -n 1")}
	items := sampleItems()

	item, ok, err := p.Pick(context.Background(), items)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, items[0], item)
}

func TestPickMatchesLaterLine(t *testing.T) {
	p := &Picker{Bin: writeStub(t, "sed -n 2p")}
	items := sampleItems()

	item, ok, err := p.Pick(context.Background(), items)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cc33dd44", item.ID)
}

func TestPickCancelled(t *testing.T) {
	p := &Picker{Bin: writeStub(t, "exit 130")}

	item, ok, err := p.Pick(context.Background(), sampleItems())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, item.ID)
}

func TestPickNoSelectionOutput(t *testing.T) {
	p := &Picker{Bin: writeStub(t, "exit 0")}

	_, ok, err := p.Pick(context.Background(), sampleItems())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickMissingBinary(t *testing.T) {
	p := &Picker{Bin: filepath.Join(t.TempDir(), "no-such-fzf")}

	_, ok, err := p.Pick(context.Background(), sampleItems())
	require.Error(t, err)
	assert.False(t, ok)
}

func TestAvailable(t *testing.T) {
	missing := &Picker{Bin: filepath.Join(t.TempDir(), "no-such-fzf")}
	assert.False(t, missing.Available())

	present := &Picker{Bin: writeStub(t, "echo 0.46.1")}
	assert.True(t, present.Available())
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPublishInputFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tip.md")
	require.NoError(t, os.WriteFile(path, []byte("# Worktrees\n\nUse them.\n"), 0o644))

	content, err := readPublishInput([]string{path}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "# Worktrees\n\nUse them.\n", content)
}

func TestReadPublishInputFromStdin(t *testing.T) {
	content, err := readPublishInput(nil, strings.NewReader("piped content\n"))
	require.NoError(t, err)
	assert.Equal(t, "piped content\n", content)
}

func TestReadPublishInputMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.md")

	_, err := readPublishInput([]string{path}, strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestPublishConfigFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *PublishConfig
	}{
		{
			name:     "no flags",
			args:     []string{},
			expected: &PublishConfig{},
		},
		{
			name:     "name short form",
			args:     []string{"-n", "git workflow"},
			expected: &PublishConfig{Name: "git workflow"},
		},
		{
			name:     "name and description",
			args:     []string{"--name", "git workflow", "--description", "Worktree conventions"},
			expected: &PublishConfig{Name: "git workflow", Description: "Worktree conventions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{
				Use: "test",
				Run: func(_ *cobra.Command, _ []string) {},
			}
			defaults := NewPublishConfig()
			cmd.Flags().StringP("name", "n", defaults.Name, "Name for the snippet")
			cmd.Flags().StringP("description", "d", defaults.Description, "Short description of the snippet")

			require.NoError(t, cmd.ParseFlags(tt.args))

			config := getPublishConfigFromFlags(cmd)
			assert.Equal(t, tt.expected, config)
		})
	}
}

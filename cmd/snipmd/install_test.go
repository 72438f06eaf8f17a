package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallConfigFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *InstallConfig
	}{
		{
			name:     "no flags",
			args:     []string{},
			expected: &InstallConfig{},
		},
		{
			name:     "id flag",
			args:     []string{"--id", "a1b2c3d4"},
			expected: &InstallConfig{ID: "a1b2c3d4"},
		},
		{
			name:     "user scope with yes",
			args:     []string{"-u", "-y"},
			expected: &InstallConfig{User: true, Yes: true},
		},
		{
			name:     "local scope with diff",
			args:     []string{"--local", "--diff"},
			expected: &InstallConfig{Local: true, Diff: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{
				Use: "test",
				Run: func(_ *cobra.Command, _ []string) {},
			}
			defaults := NewInstallConfig()
			cmd.Flags().String("id", defaults.ID, "Install by exact snippet ID")
			cmd.Flags().BoolP("local", "l", defaults.Local, "Install into ./CLAUDE.md")
			cmd.Flags().BoolP("user", "u", defaults.User, "Install into ~/.claude/CLAUDE.md")
			cmd.Flags().BoolP("yes", "y", defaults.Yes, "Skip the confirmation prompt")
			cmd.Flags().Bool("diff", defaults.Diff, "Show the pending change before writing")

			require.NoError(t, cmd.ParseFlags(tt.args))

			config := getInstallConfigFromFlags(cmd)
			assert.Equal(t, tt.expected, config)
		})
	}
}

func TestPullConfigFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *PullConfig
	}{
		{
			name:     "defaults",
			args:     []string{},
			expected: &PullConfig{Attempts: 3},
		},
		{
			name:     "custom source",
			args:     []string{"--from", "https://github.com/example/snippets"},
			expected: &PullConfig{From: "https://github.com/example/snippets", Attempts: 3},
		},
		{
			name:     "custom attempts",
			args:     []string{"--attempts", "5"},
			expected: &PullConfig{Attempts: 5},
		},
		{
			name:     "zero attempts keeps the default",
			args:     []string{"--attempts", "0"},
			expected: &PullConfig{Attempts: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{
				Use: "test",
				Run: func(_ *cobra.Command, _ []string) {},
			}
			defaults := NewPullConfig()
			cmd.Flags().String("from", defaults.From, "Repository URL to clone when the local copy is missing")
			cmd.Flags().Uint("attempts", defaults.Attempts, "Pull attempts before giving up")

			require.NoError(t, cmd.ParseFlags(tt.args))

			config := getPullConfigFromFlags(cmd)
			assert.Equal(t, tt.expected, config)
		})
	}
}

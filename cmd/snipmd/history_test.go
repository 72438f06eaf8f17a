package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/snipmd/snipmd/pkg/history"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryOutputRenderTable(t *testing.T) {
	events := []history.Event{
		{
			ID:        2,
			Action:    history.ActionInstall,
			SnippetID: "a1b2c3d4",
			Name:      "git workflow",
			Target:    "CLAUDE.md",
			Repo:      "main",
			CreatedAt: time.Date(2026, 8, 20, 9, 30, 0, 0, time.Local),
		},
		{
			ID:        1,
			Action:    history.ActionPublish,
			SnippetID: "deadbeef",
			Name:      "review checklist",
			Repo:      "main",
			CreatedAt: time.Date(2026, 8, 19, 14, 0, 0, 0, time.Local),
		},
	}

	output := NewHistoryOutput(events, HistoryTableFormat)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf))

	rendered := buf.String()
	assert.Contains(t, rendered, "Time")
	assert.Contains(t, rendered, "2026-08-20 09:30")
	assert.Contains(t, rendered, history.ActionInstall)
	assert.Contains(t, rendered, "a1b2c3d4")
	assert.Contains(t, rendered, "git workflow")
	assert.Contains(t, rendered, "CLAUDE.md")
	// Publish events have no target
	assert.Contains(t, rendered, "-")
}

func TestHistoryOutputRenderTableEmpty(t *testing.T) {
	output := NewHistoryOutput(nil, HistoryTableFormat)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf))

	assert.Contains(t, buf.String(), "No history recorded yet")
}

func TestHistoryOutputRenderJSON(t *testing.T) {
	events := []history.Event{
		{
			ID:        1,
			Action:    history.ActionUninstall,
			SnippetID: "a1b2c3d4",
			Name:      "git workflow",
			Target:    "CLAUDE.md",
			Repo:      "main",
			CreatedAt: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
		},
	}

	output := NewHistoryOutput(events, HistoryJSONFormat)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf))

	var decoded []struct {
		Action    string `json:"action"`
		SnippetID string `json:"snippet_id"`
		Target    string `json:"target"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded, 1)
	assert.Equal(t, history.ActionUninstall, decoded[0].Action)
	assert.Equal(t, "a1b2c3d4", decoded[0].SnippetID)
	assert.Equal(t, "CLAUDE.md", decoded[0].Target)
}

func TestHistoryConfigFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *HistoryConfig
	}{
		{
			name:     "defaults",
			args:     []string{},
			expected: &HistoryConfig{Limit: 20},
		},
		{
			name:     "limit short form",
			args:     []string{"-n", "5"},
			expected: &HistoryConfig{Limit: 5},
		},
		{
			name:     "limit and json",
			args:     []string{"--limit", "50", "--json"},
			expected: &HistoryConfig{Limit: 50, JSON: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{
				Use: "test",
				Run: func(_ *cobra.Command, _ []string) {},
			}
			defaults := NewHistoryConfig()
			cmd.Flags().IntP("limit", "n", defaults.Limit, "Maximum number of events to show")
			cmd.Flags().Bool("json", defaults.JSON, "Output in JSON format")

			require.NoError(t, cmd.ParseFlags(tt.args))

			config := getHistoryConfigFromFlags(cmd)
			assert.Equal(t, tt.expected, config)
		})
	}
}

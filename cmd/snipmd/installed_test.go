package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstalledOutputRenderTable(t *testing.T) {
	names := map[string]string{"a1b2c3d4": "git workflow"}
	output := NewInstalledOutput("CLAUDE.md", []string{"a1b2c3d4", "deadbeef"}, names, InstalledTableFormat)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf))

	rendered := buf.String()
	assert.Contains(t, rendered, "ID")
	assert.Contains(t, rendered, "a1b2c3d4")
	assert.Contains(t, rendered, "git workflow")
	assert.Contains(t, rendered, "(not in repository)")
}

func TestInstalledOutputRenderTableEmpty(t *testing.T) {
	output := NewInstalledOutput("CLAUDE.md", nil, nil, InstalledTableFormat)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf))

	assert.Contains(t, buf.String(), "No snippets installed in CLAUDE.md")
}

func TestInstalledOutputRenderJSON(t *testing.T) {
	names := map[string]string{"a1b2c3d4": "git workflow"}
	output := NewInstalledOutput("CLAUDE.md", []string{"a1b2c3d4", "deadbeef"}, names, InstalledJSONFormat)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf))

	var decoded struct {
		Target   string `json:"target"`
		Snippets []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"snippets"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "CLAUDE.md", decoded.Target)
	require.Len(t, decoded.Snippets, 2)
	assert.Equal(t, "a1b2c3d4", decoded.Snippets[0].ID)
	assert.Equal(t, "git workflow", decoded.Snippets[0].Name)
	assert.Equal(t, "deadbeef", decoded.Snippets[1].ID)
	assert.Empty(t, decoded.Snippets[1].Name)
}

func TestInstalledOutputKeepsDocumentOrder(t *testing.T) {
	output := NewInstalledOutput("CLAUDE.md", []string{"cccccccc", "aaaaaaaa", "bbbbbbbb"}, nil, InstalledTableFormat)

	require.Len(t, output.Entries, 3)
	assert.Equal(t, "cccccccc", output.Entries[0].ID)
	assert.Equal(t, "aaaaaaaa", output.Entries[1].ID)
	assert.Equal(t, "bbbbbbbb", output.Entries[2].ID)
}

func TestInstalledConfigFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *InstalledConfig
	}{
		{
			name:     "no flags",
			args:     []string{},
			expected: &InstalledConfig{},
		},
		{
			name:     "local short form",
			args:     []string{"-l"},
			expected: &InstalledConfig{Local: true},
		},
		{
			name:     "user and json",
			args:     []string{"--user", "--json"},
			expected: &InstalledConfig{User: true, JSON: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{
				Use: "test",
				Run: func(_ *cobra.Command, _ []string) {},
			}
			defaults := NewInstalledConfig()
			cmd.Flags().BoolP("local", "l", defaults.Local, "Inspect ./CLAUDE.md")
			cmd.Flags().BoolP("user", "u", defaults.User, "Inspect ~/.claude/CLAUDE.md")
			cmd.Flags().Bool("json", defaults.JSON, "Output as JSON")

			require.NoError(t, cmd.ParseFlags(tt.args))

			config := getInstalledConfigFromFlags(cmd)
			assert.Equal(t, tt.expected, config)
		})
	}
}

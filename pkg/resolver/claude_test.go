package resolver

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("error handling", "/tmp/analysis.json")

	want := "Analyze the following snippets and find the best match for the query: 'error handling'\n" +
		"Return only the ID of the best matching snippet, or 'NONE' if no good match exists.\n" +
		"Consider semantic similarity, keywords, and practical relevance.\n" +
		"File: /tmp/analysis.json"
	assert.Equal(t, want, prompt)
}

func TestWriteAnalysisFile(t *testing.T) {
	candidates := []Candidate{
		{ID: "abc123", Name: "Use Tabs", Preview: "Always use tabs.", Content: "Always use tabs.\n"},
	}

	path, err := writeAnalysisFile("indentation", candidates)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed analysisFile
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "indentation", parsed.Query)
	require.Len(t, parsed.Snippets, 1)
	assert.Equal(t, "abc123", parsed.Snippets[0].ID)
	assert.Equal(t, "Always use tabs.", parsed.Snippets[0].Preview)
}

func TestMatchResponse(t *testing.T) {
	candidates := []Candidate{
		{ID: "abc123", Name: "Use Tabs"},
		{ID: "def456", Name: "Error Handling"},
	}

	tests := []struct {
		name     string
		response string
		wantID   string
		wantOK   bool
		wantErr  error
	}{
		{"exact id", "def456", "def456", true, nil},
		{"id prefix", "abc", "abc123", true, nil},
		{"id inside prose", "The best match is abc123.", "abc123", true, nil},
		{"explicit none", "NONE", "", false, ErrNoMatch},
		{"empty answer abstains", "", "", false, nil},
		{"unrelated answer abstains", "zzz999", "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok, err := matchResponse(tt.response, candidates)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestClaudeResolverMissingBinary(t *testing.T) {
	r := &ClaudeResolver{Bin: "snipmd-test-binary-that-does-not-exist"}

	_, ok, err := r.Resolve(context.Background(), "query", []Candidate{{ID: "abc123"}})
	require.NoError(t, err, "a missing binary abstains instead of failing")
	assert.False(t, ok)
}

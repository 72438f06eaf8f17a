package main

import (
	"testing"

	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name          string
		local         bool
		user          bool
		cfg           appconf.Config
		expectedScope claudemd.Scope
		expectError   bool
	}{
		{
			name:          "defaults to local",
			cfg:           appconf.Config{},
			expectedScope: claudemd.ScopeLocal,
		},
		{
			name:          "local flag",
			local:         true,
			cfg:           appconf.Config{},
			expectedScope: claudemd.ScopeLocal,
		},
		{
			name:          "user flag",
			user:          true,
			cfg:           appconf.Config{},
			expectedScope: claudemd.ScopeUser,
		},
		{
			name:        "conflicting flags",
			local:       true,
			user:        true,
			cfg:         appconf.Config{},
			expectError: true,
		},
		{
			name:          "configured install location",
			cfg:           appconf.Config{InstallLocation: "user"},
			expectedScope: claudemd.ScopeUser,
		},
		{
			name:          "flag beats configured install location",
			local:         true,
			cfg:           appconf.Config{InstallLocation: "user"},
			expectedScope: claudemd.ScopeLocal,
		},
		{
			name:        "invalid configured install location",
			cfg:         appconf.Config{InstallLocation: "global"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := resolveScope(tt.local, tt.user, tt.cfg)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedScope, scope)
		})
	}
}

func TestConfirmed(t *testing.T) {
	tests := []struct {
		response string
		expected bool
	}{
		{"", true},
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"  y  ", true},
		{"n", false},
		{"no", false},
		{"nah", false},
		{"quit", false},
	}

	for _, tt := range tests {
		t.Run("response "+tt.response, func(t *testing.T) {
			assert.Equal(t, tt.expected, confirmed(tt.response))
		})
	}
}

func TestCandidatesFromSnippets(t *testing.T) {
	snippets := []*snippet.Snippet{
		{
			ID:      "a1b2c3d4",
			Name:    "git worktree workflow",
			Content: "# Git worktrees\n\nUse worktrees for parallel branches.",
		},
		{
			ID:      "deadbeef",
			Name:    "long snippet",
			Content: "one\ntwo\nthree\nfour\nfive\nsix\nseven",
		},
	}

	candidates := candidatesFromSnippets(snippets)
	require.Len(t, candidates, 2)

	assert.Equal(t, "a1b2c3d4", candidates[0].ID)
	assert.Equal(t, "git worktree workflow", candidates[0].Name)
	assert.Equal(t, snippets[0].Content, candidates[0].Content)
	// Short content fits inside the preview untouched
	assert.Equal(t, snippets[0].Content, candidates[0].Preview)

	// Long content gets cut down for the preview but kept whole in Content
	assert.Contains(t, candidates[1].Preview, "truncated")
	assert.NotContains(t, candidates[1].Preview, "six")
	assert.Equal(t, snippets[1].Content, candidates[1].Content)
}

func TestCandidatesFromSnippetsEmpty(t *testing.T) {
	candidates := candidatesFromSnippets(nil)
	assert.Empty(t, candidates)
}

package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/resolver"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/viper"
)

// loadConfig returns the app configuration from viper state. A malformed
// config file degrades to the defaults with a logged warning so read-only
// commands keep working.
func loadConfig(ctx context.Context) appconf.Config {
	cfg, err := appconf.FromViper()
	if err != nil {
		logger.G(ctx).WithError(err).Warn("Malformed configuration, using defaults")
		return appconf.Default()
	}
	return cfg
}

// activeRepoName picks the snippet repository to operate on. The --repo flag
// beats the configured default, which beats auto-detection.
func activeRepoName(ctx context.Context, cfg *appconf.Config) string {
	if name := viper.GetString("repo"); name != "" {
		return name
	}
	return appconf.DefaultRepoName(ctx, cfg)
}

// openStore opens the snippet store for the active repository and returns
// the repository name alongside it.
func openStore(ctx context.Context, cfg *appconf.Config) (*snippet.Store, string, error) {
	name := activeRepoName(ctx, cfg)
	dir, err := appconf.SnippetsDir(name)
	if err != nil {
		return nil, "", errors.Wrap(err, "locating the snippet repository")
	}
	return snippet.NewStore(dir), name, nil
}

// resolveScope picks the install target scope: explicit flags beat the
// configured install location, which beats the built-in local default.
func resolveScope(local, user bool, cfg appconf.Config) (claudemd.Scope, error) {
	switch {
	case local && user:
		return "", errors.New("--local and --user cannot be used together")
	case local:
		return claudemd.ScopeLocal, nil
	case user:
		return claudemd.ScopeUser, nil
	}
	if cfg.InstallLocation != "" {
		return claudemd.ParseScope(cfg.InstallLocation)
	}
	return claudemd.ScopeLocal, nil
}

// openHistory opens the event log, or returns nil when history is disabled
// or unavailable. A nil store silently discards writes, so callers never
// branch on it.
func openHistory(ctx context.Context, cfg appconf.Config) *history.Store {
	if !cfg.HistoryEnabled {
		return nil
	}
	path, err := appconf.HistoryDBPath()
	if err != nil {
		logger.G(ctx).WithError(err).Warn("Could not locate the history database")
		return nil
	}
	store, err := history.Open(ctx, path)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("Could not open the history database")
		return nil
	}
	return store
}

// newResolver builds the standard query resolution chain: the claude CLI
// first, deterministic fuzzy matching as the fallback.
func newResolver() resolver.Chain {
	return resolver.Chain{&resolver.ClaudeResolver{}, resolver.FuzzyResolver{}}
}

// candidatesFromSnippets adapts store records for the resolver.
func candidatesFromSnippets(snippets []*snippet.Snippet) []resolver.Candidate {
	candidates := make([]resolver.Candidate, 0, len(snippets))
	for _, sn := range snippets {
		candidates = append(candidates, resolver.Candidate{
			ID:      sn.ID,
			Name:    sn.Name,
			Preview: sn.Preview(snippet.PreviewLines),
			Content: sn.Content,
		})
	}
	return candidates
}

// confirmed reports whether a prompt answer means yes. An empty answer
// accepts the default.
func confirmed(response string) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "", "y", "yes":
		return true
	}
	return false
}

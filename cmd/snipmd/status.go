package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/gitrepo"
	"github.com/snipmd/snipmd/pkg/ledger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show repositories and install targets at a glance",
	Long: `Show the snipmd environment: the app directory, every snippet
repository with its git state and snippet count, and the CLAUDE.md
targets with their installed blocks.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig(ctx)

		appDir, err := appconf.Dir()
		if err != nil {
			presenter.Error(err, "Failed to locate the app directory")
			os.Exit(1)
		}
		configPath, _ := appconf.ConfigPath()
		defaultRepo := appconf.DefaultRepoName(ctx, &cfg)

		presenter.Section("Environment")
		presenter.Info(fmt.Sprintf("App directory: %s", appDir))
		presenter.Info(fmt.Sprintf("Config: %s", configPath))
		presenter.Info(fmt.Sprintf("Default repository: %s", defaultRepo))
		presenter.Info(fmt.Sprintf("Install location: %s", cfg.InstallLocation))

		presenter.Section("Repositories")
		reposDir, err := appconf.ReposDir()
		if err != nil {
			presenter.Error(err, "Failed to locate the repositories directory")
			os.Exit(1)
		}
		entries, err := os.ReadDir(reposDir)
		if err != nil || len(entries) == 0 {
			presenter.Info("No repositories yet")
			presenter.Info("Run 'snipmd pull' or 'snipmd setup <repo-name>' to create one")
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			dir := filepath.Join(reposDir, name)

			gitState := "❌ no git"
			if gitrepo.New(dir).Initialized() {
				gitState = "✅ git"
			}

			count := 0
			store := snippet.NewStore(filepath.Join(dir, "snippets"))
			if snippets, err := store.List(ctx); err == nil {
				count = len(snippets)
			}

			marker := ""
			if name == defaultRepo {
				marker = " (default)"
			}
			presenter.Info(fmt.Sprintf("%s%s: %s, %d snippet(s)", name, marker, gitState, count))
		}

		presenter.Section("Install targets")
		for _, scope := range []claudemd.Scope{claudemd.ScopeLocal, claudemd.ScopeUser} {
			target, err := claudemd.Resolve(scope)
			if err != nil {
				presenter.Warning(fmt.Sprintf("%s: %v", scope, err))
				continue
			}
			if !target.Exists() {
				presenter.Info(fmt.Sprintf("%s: %s (missing)", scope, target.Path))
				continue
			}
			doc, err := target.Read()
			if err != nil {
				presenter.Warning(fmt.Sprintf("%s: %v", scope, err))
				continue
			}
			ids, scanErr := ledger.ListInstalled(doc)
			presenter.Info(fmt.Sprintf("%s: %s, %d installed snippet(s)", scope, target.Path, len(ids)))
			if scanErr != nil {
				presenter.Warning(fmt.Sprintf("Corrupt markers in %s: %v", target.Path, scanErr))
			}
		}
	},
}

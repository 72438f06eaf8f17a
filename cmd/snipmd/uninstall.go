package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/ledger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/resolver"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// UninstallConfig holds configuration for the uninstall command
type UninstallConfig struct {
	ID    string
	Local bool
	User  bool
	Yes   bool
	Diff  bool
}

// NewUninstallConfig creates a new UninstallConfig with default values
func NewUninstallConfig() *UninstallConfig {
	return &UninstallConfig{}
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [query]",
	Short: "Remove an installed snippet from CLAUDE.md",
	Long: `Remove a marker-delimited snippet block from CLAUDE.md.

The query is resolved against the snippets currently installed in the
target document. Blocks whose ID is no longer in the snippet repository
can still be removed by their raw ID. Blocks with corrupt markers are
never removed; repair the document by hand first.

Example:
  snipmd uninstall "gui applications"
  snipmd uninstall --id 3f2a9c1d --diff`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getUninstallConfigFromFlags(cmd)

		if config.ID == "" && len(args) == 0 {
			presenter.Error(errors.New("nothing to uninstall"), "Provide a query or --id")
			os.Exit(1)
		}

		cfg := loadConfig(ctx)
		scope, err := resolveScope(config.Local, config.User, cfg)
		if err != nil {
			presenter.Error(err, "Invalid install location")
			os.Exit(1)
		}
		target, err := claudemd.Resolve(scope)
		if err != nil {
			presenter.Error(err, "Failed to locate the target document")
			os.Exit(1)
		}

		doc, err := target.Read()
		if err != nil {
			presenter.Error(err, "Failed to read the target document")
			os.Exit(1)
		}

		ids, err := ledger.ListInstalled(doc)
		if err != nil {
			presenter.Warning(fmt.Sprintf("Corrupt markers in %s: %v", target.Path, err))
		}
		if len(ids) == 0 && config.ID == "" {
			presenter.Info(fmt.Sprintf("No snippets installed in %s", target.Path))
			return
		}

		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}

		// Join installed IDs with store records; blocks unknown to the
		// store stay addressable by their raw ID.
		candidates := make([]resolver.Candidate, 0, len(ids))
		names := make(map[string]string, len(ids))
		for _, id := range ids {
			names[id] = id
			if sn, err := store.Get(ctx, id); err == nil {
				names[id] = sn.Name
				candidates = append(candidates, resolver.Candidate{
					ID:      id,
					Name:    sn.Name,
					Preview: sn.Preview(snippet.PreviewLines),
					Content: sn.Content,
				})
				continue
			}
			candidates = append(candidates, resolver.Candidate{ID: id, Name: id})
		}

		id := config.ID
		if id == "" {
			query := args[0]
			presenter.Info(fmt.Sprintf("Finding installed snippet matching %q...", query))
			resolved, ok, err := newResolver().Resolve(ctx, query, candidates)
			if err != nil && !errors.Is(err, resolver.ErrNoMatch) {
				presenter.Error(err, "Failed to resolve the query")
				os.Exit(1)
			}
			if !ok {
				presenter.Warning(fmt.Sprintf("No installed snippet matched %q", query))
				presenter.Info("Installed snippets:")
				for _, installed := range ids {
					presenter.Info(fmt.Sprintf("  - %s (%s)", names[installed], installed))
				}
				return
			}
			id = resolved
		}

		name := id
		if n, ok := names[id]; ok {
			name = n
		}

		if !config.Yes {
			response := presenter.Prompt(fmt.Sprintf("Remove %q (%s) from %s?", name, id, target.Path), "Y/n")
			if !confirmed(response) {
				presenter.Info("Uninstall cancelled")
				return
			}
		}

		updated, err := ledger.Uninstall(doc, id)
		if err != nil {
			var corrupt *ledger.CorruptMarkerError
			switch {
			case errors.Is(err, ledger.ErrNotInstalled):
				presenter.Warning(fmt.Sprintf("Snippet %s is not installed in %s", id, target.Path))
			case errors.As(err, &corrupt):
				presenter.Error(err, fmt.Sprintf("Markers for %s are corrupt in %s; repair the file before uninstalling", id, target.Path))
				os.Exit(1)
			default:
				presenter.Error(err, "Failed to uninstall the snippet")
				os.Exit(1)
			}
			return
		}

		if config.Diff {
			presenter.Section("Pending change")
			fmt.Print(target.Diff(doc, updated))
		}

		if err := target.Write(updated); err != nil {
			presenter.Error(err, "Failed to write the target document")
			os.Exit(1)
		}

		events := openHistory(ctx, cfg)
		defer events.Close()
		events.TryRecord(ctx, history.Event{
			Action:    history.ActionUninstall,
			SnippetID: id,
			Name:      name,
			Target:    target.Path,
			Repo:      repoName,
		})

		presenter.Success(fmt.Sprintf("Removed %q (%s) from %s", name, id, target.Path))
	},
}

func init() {
	uninstallDefaults := NewUninstallConfig()
	uninstallCmd.Flags().String("id", uninstallDefaults.ID, "Uninstall by snippet ID, skipping query resolution")
	uninstallCmd.Flags().BoolP("local", "l", uninstallDefaults.Local, "Target ./CLAUDE.md")
	uninstallCmd.Flags().BoolP("user", "u", uninstallDefaults.User, "Target ~/.claude/CLAUDE.md")
	uninstallCmd.Flags().BoolP("yes", "y", uninstallDefaults.Yes, "Skip the confirmation prompt")
	uninstallCmd.Flags().Bool("diff", uninstallDefaults.Diff, "Show the pending change as a unified diff")
}

// getUninstallConfigFromFlags extracts uninstall configuration from command flags
func getUninstallConfigFromFlags(cmd *cobra.Command) *UninstallConfig {
	config := NewUninstallConfig()

	if id, err := cmd.Flags().GetString("id"); err == nil {
		config.ID = id
	}
	if local, err := cmd.Flags().GetBool("local"); err == nil {
		config.Local = local
	}
	if user, err := cmd.Flags().GetBool("user"); err == nil {
		config.User = user
	}
	if yes, err := cmd.Flags().GetBool("yes"); err == nil {
		config.Yes = yes
	}
	if diff, err := cmd.Flags().GetBool("diff"); err == nil {
		config.Diff = diff
	}

	return config
}

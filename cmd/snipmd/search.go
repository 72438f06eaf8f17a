package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/picker"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/resolver"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// SearchConfig holds configuration for the search command
type SearchConfig struct {
	Local bool
	User  bool
	Yes   bool
	Diff  bool
}

// NewSearchConfig creates a new SearchConfig with default values
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{}
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Browse snippets with the fuzzy finder",
	Long: `Browse the published snippets interactively through fzf and install
the selection into CLAUDE.md.

With a query the best match is resolved first and offered directly; the
picker opens when nothing matches. Without fzf installed the command
degrades to a plain listing.

Example:
  snipmd search
  snipmd search "docker" --user`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getSearchConfigFromFlags(cmd)

		cfg := loadConfig(ctx)
		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}
		snippets, err := store.List(ctx)
		if err != nil {
			presenter.Error(err, "Failed to list snippets")
			os.Exit(1)
		}
		if len(snippets) == 0 {
			presenter.Warning("No snippets published yet. Try 'snipmd publish' or 'snipmd pull' first")
			return
		}

		var sn *snippet.Snippet

		if len(args) == 1 {
			query := args[0]
			presenter.Info(fmt.Sprintf("Finding best match for %q...", query))
			id, ok, err := newResolver().Resolve(ctx, query, candidatesFromSnippets(snippets))
			if err != nil && !errors.Is(err, resolver.ErrNoMatch) {
				presenter.Error(err, "Failed to resolve the query")
				os.Exit(1)
			}
			if ok {
				sn, err = store.Get(ctx, id)
				if err != nil {
					presenter.Error(err, "Failed to load the matched snippet")
					os.Exit(1)
				}
			} else {
				presenter.Warning(fmt.Sprintf("No suitable snippet found for %q, browsing instead", query))
			}
		}

		if sn == nil {
			p := &picker.Picker{}
			if !p.Available() {
				presenter.Warning("fzf is not installed; showing a plain listing instead")
				presenter.Info("Install fzf for interactive selection:")
				presenter.Info("  Ubuntu/Debian: sudo apt install fzf")
				presenter.Info("  macOS: brew install fzf")
				output := NewSnippetListOutput(snippets, SnippetListTableFormat)
				if err := output.Render(os.Stdout); err != nil {
					presenter.Error(err, "Failed to render the listing")
					os.Exit(1)
				}
				return
			}

			items := make([]picker.Item, 0, len(snippets))
			for _, s := range snippets {
				items = append(items, picker.Item{ID: s.ID, Label: s.Name, Content: s.Content})
			}
			item, ok, err := p.Pick(ctx, items)
			if err != nil {
				presenter.Error(err, "Selection failed")
				os.Exit(1)
			}
			if !ok {
				presenter.Info("Search cancelled")
				return
			}
			sn, err = store.Get(ctx, item.ID)
			if err != nil {
				presenter.Error(err, "Failed to load the selected snippet")
				os.Exit(1)
			}
		}

		// Show the whole snippet before offering to install it.
		if !config.Yes {
			presenter.Section(fmt.Sprintf("%s (%s)", sn.Name, sn.ID))
			fmt.Println(sn.Content)
			presenter.Separator()
		}

		installResolved(ctx, cfg, repoName, sn, installOptions{
			Local: config.Local,
			User:  config.User,
			Yes:   config.Yes,
			Diff:  config.Diff,
		})
	},
}

func init() {
	searchDefaults := NewSearchConfig()
	searchCmd.Flags().BoolP("local", "l", searchDefaults.Local, "Install into ./CLAUDE.md")
	searchCmd.Flags().BoolP("user", "u", searchDefaults.User, "Install into ~/.claude/CLAUDE.md")
	searchCmd.Flags().BoolP("yes", "y", searchDefaults.Yes, "Skip the confirmation prompt")
	searchCmd.Flags().Bool("diff", searchDefaults.Diff, "Show the pending change as a unified diff")
}

// getSearchConfigFromFlags extracts search configuration from command flags
func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()

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

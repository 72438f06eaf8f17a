package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/claudemd"
	"github.com/snipmd/snipmd/pkg/history"
	"github.com/snipmd/snipmd/pkg/ledger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/resolver"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// InstallConfig holds configuration for the install command
type InstallConfig struct {
	ID    string
	Local bool
	User  bool
	Yes   bool
	Diff  bool
}

// NewInstallConfig creates a new InstallConfig with default values
func NewInstallConfig() *InstallConfig {
	return &InstallConfig{}
}

var installCmd = &cobra.Command{
	Use:   "install [query]",
	Short: "Install a snippet into CLAUDE.md",
	Long: `Install a snippet into CLAUDE.md, delimited by marker comments.

The query is matched against the published snippets, first through the
claude CLI and then through fuzzy matching. The snippet body is appended
to the target document between SNIPPET_START and SNIPPET_END markers so
it can be listed and uninstalled later. Installing an already-installed
ID is refused.

Example:
  snipmd install "gui applications"
  snipmd install --id 3f2a9c1d --user --yes`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getInstallConfigFromFlags(cmd)

		if config.ID == "" && len(args) == 0 {
			presenter.Error(errors.New("nothing to install"), "Provide a query or --id")
			os.Exit(1)
		}

		cfg := loadConfig(ctx)
		store, repoName, err := openStore(ctx, &cfg)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}

		var sn *snippet.Snippet
		if config.ID != "" {
			sn, err = store.Get(ctx, config.ID)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("No snippet with ID %s", config.ID))
				os.Exit(1)
			}
		} else {
			query := args[0]
			snippets, err := store.List(ctx)
			if err != nil {
				presenter.Error(err, "Failed to list snippets")
				os.Exit(1)
			}
			if len(snippets) == 0 {
				presenter.Warning("No snippets published yet. Try 'snipmd publish' or 'snipmd pull' first")
				return
			}

			presenter.Info(fmt.Sprintf("Finding best match for %q...", query))
			id, ok, err := newResolver().Resolve(ctx, query, candidatesFromSnippets(snippets))
			if err != nil && !errors.Is(err, resolver.ErrNoMatch) {
				presenter.Error(err, "Failed to resolve the query")
				os.Exit(1)
			}
			if !ok {
				reportNoMatch(query, snippets)
				return
			}

			sn, err = store.Get(ctx, id)
			if err != nil {
				presenter.Error(err, "Failed to load the matched snippet")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Found matching snippet: %q", sn.Name))
		}

		if !config.Yes {
			presenter.Section(fmt.Sprintf("%s (%s)", sn.Name, sn.ID))
			fmt.Println(sn.Preview(snippet.PreviewLines))
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
	installDefaults := NewInstallConfig()
	installCmd.Flags().String("id", installDefaults.ID, "Install by snippet ID, skipping query resolution")
	installCmd.Flags().BoolP("local", "l", installDefaults.Local, "Install into ./CLAUDE.md")
	installCmd.Flags().BoolP("user", "u", installDefaults.User, "Install into ~/.claude/CLAUDE.md")
	installCmd.Flags().BoolP("yes", "y", installDefaults.Yes, "Skip the confirmation prompt")
	installCmd.Flags().Bool("diff", installDefaults.Diff, "Show the pending change as a unified diff")
}

// getInstallConfigFromFlags extracts install configuration from command flags
func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()

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

// installOptions carries the scope and confirmation choices into the
// shared installation flow.
type installOptions struct {
	Local bool
	User  bool
	Yes   bool
	Diff  bool
}

// installResolved confirms and installs an already-resolved snippet. The
// caller shows the snippet first; this runs the prompt, the ledger
// transform, and the write. Shared by install and search.
func installResolved(ctx context.Context, cfg appconf.Config, repoName string, sn *snippet.Snippet, opts installOptions) {
	scope, err := resolveScope(opts.Local, opts.User, cfg)
	if err != nil {
		presenter.Error(err, "Invalid install location")
		os.Exit(1)
	}
	target, err := claudemd.Resolve(scope)
	if err != nil {
		presenter.Error(err, "Failed to locate the target document")
		os.Exit(1)
	}

	if !opts.Yes {
		response := presenter.Prompt(fmt.Sprintf("Install this snippet into %s?", target.Path), "Y/n")
		if !confirmed(response) {
			presenter.Info("Installation cancelled")
			return
		}
	}

	doc, err := target.Read()
	if err != nil {
		presenter.Error(err, "Failed to read the target document")
		os.Exit(1)
	}

	updated, err := ledger.Install(doc, sn.ID, sn.Content)
	if err != nil {
		var corrupt *ledger.CorruptMarkerError
		switch {
		case errors.Is(err, ledger.ErrAlreadyInstalled):
			presenter.Warning(fmt.Sprintf("Snippet %q (%s) is already installed in %s", sn.Name, sn.ID, target.Path))
		case errors.As(err, &corrupt):
			presenter.Error(err, fmt.Sprintf("Markers for %s are corrupt in %s; repair the file before reinstalling", sn.ID, target.Path))
			os.Exit(1)
		default:
			presenter.Error(err, "Failed to install the snippet")
			os.Exit(1)
		}
		return
	}

	if opts.Diff {
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
		Action:    history.ActionInstall,
		SnippetID: sn.ID,
		Name:      sn.Name,
		Target:    target.Path,
		Repo:      repoName,
	})

	presenter.Success(fmt.Sprintf("Installed %q (%s) into %s", sn.Name, sn.ID, target.Path))
}

// reportNoMatch tells the user nothing matched and lists what is there.
func reportNoMatch(query string, snippets []*snippet.Snippet) {
	presenter.Warning(fmt.Sprintf("No suitable snippet found for %q", query))
	if len(snippets) == 0 {
		return
	}
	presenter.Info("Available snippets:")
	for _, sn := range snippets {
		presenter.Info(fmt.Sprintf("  - %s (%s)", sn.Name, sn.ID))
	}
}

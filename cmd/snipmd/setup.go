package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/gitrepo"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
)

// SetupConfig holds configuration for the setup command
type SetupConfig struct {
	Public bool
}

// NewSetupConfig creates a new SetupConfig with default values
func NewSetupConfig() *SetupConfig {
	return &SetupConfig{
		Public: false,
	}
}

var setupCmd = &cobra.Command{
	Use:   "setup <repo-name>",
	Short: "Create a GitHub repository for your snippets",
	Long: `Create a GitHub snippet repository and wire the local copy to it.

The repository is created through the GitHub CLI (private unless --public
is given), the local working tree is initialized and seeded, the origin
remote is configured, and the first push is made. The repository becomes
the configured default.

Example:
  snipmd setup my-snippets
  snipmd setup team-snippets --public`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getSetupConfigFromFlags(cmd)
		name := args[0]

		if !gitrepo.GitInstalled() {
			presenter.Error(errors.New("git not found"), "Install git to set up a snippet repository")
			os.Exit(1)
		}
		if !gitrepo.GhInstalled() {
			presenter.Error(errors.New("gh not found"), "Install the GitHub CLI to set up a snippet repository")
			presenter.Info("See https://cli.github.com for installation instructions")
			os.Exit(1)
		}
		if !gitrepo.GhAuthenticated() {
			presenter.Error(errors.New("gh is not authenticated"), "Authenticate the GitHub CLI first")
			presenter.Info("Run 'gh auth login' and try again")
			os.Exit(1)
		}

		visibility := "private"
		if config.Public {
			visibility = "public"
		}
		presenter.Info(fmt.Sprintf("Creating %s GitHub repository %q...", visibility, name))
		if err := gitrepo.GhRepoCreate(ctx, name, !config.Public); err != nil {
			if errors.Is(err, gitrepo.ErrRepoExists) {
				presenter.Warning(fmt.Sprintf("Repository %q already exists, reusing it", name))
			} else {
				presenter.Error(err, "Failed to create the GitHub repository")
				os.Exit(1)
			}
		}

		dir, err := appconf.RepoDir(name)
		if err != nil {
			presenter.Error(err, "Failed to locate the app directory")
			os.Exit(1)
		}
		repo := gitrepo.New(dir)
		if !repo.Initialized() {
			presenter.Info("Initializing the local repository...")
			if err := repo.Bootstrap(ctx); err != nil {
				presenter.Error(err, "Failed to initialize the local repository")
				os.Exit(1)
			}
		}

		username, err := gitrepo.GhUsername(ctx)
		if err != nil {
			presenter.Error(err, "Failed to resolve the GitHub username")
			os.Exit(1)
		}
		if err := repo.SetRemote(ctx, gitrepo.CloneURL(username, name)); err != nil {
			presenter.Error(err, "Failed to configure the origin remote")
			os.Exit(1)
		}

		// Record the default up front so a failed push still leaves the
		// repository usable locally.
		cfg := loadConfig(ctx)
		cfg.DefaultRepo = name
		if err := appconf.Save(cfg); err != nil {
			presenter.Warning(fmt.Sprintf("Could not save the default repository: %v", err))
		}

		presenter.Info("Pushing to GitHub...")
		if err := repo.PushUpstream(ctx); err != nil {
			if strings.Contains(err.Error(), "rejected") && strings.Contains(err.Error(), "fetch first") {
				presenter.Info("Remote has existing commits, merging them in...")
				if err := repo.PullMerge(ctx); err != nil {
					presenter.Error(err, "Failed to merge the remote history")
					os.Exit(1)
				}
				if err := repo.PushUpstream(ctx); err != nil {
					presenter.Error(err, "Failed to push after merging")
					os.Exit(1)
				}
			} else {
				presenter.Error(err, "Failed to push to GitHub")
				os.Exit(1)
			}
		}

		presenter.Success(fmt.Sprintf("Repository %q is ready and set as the default", name))
		presenter.Info(fmt.Sprintf("View it at %s", gitrepo.WebURL(username, name)))
	},
}

func init() {
	setupDefaults := NewSetupConfig()
	setupCmd.Flags().Bool("public", setupDefaults.Public, "Create a public repository instead of a private one")
}

// getSetupConfigFromFlags extracts setup configuration from command flags
func getSetupConfigFromFlags(cmd *cobra.Command) *SetupConfig {
	config := NewSetupConfig()

	if public, err := cmd.Flags().GetBool("public"); err == nil {
		config.Public = public
	}

	return config
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/gitrepo"
	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/snipmd/snipmd/pkg/snippet"
	"github.com/spf13/cobra"
)

// PullConfig holds configuration for the pull command
type PullConfig struct {
	From     string
	Attempts uint
}

// NewPullConfig creates a new PullConfig with default values
func NewPullConfig() *PullConfig {
	return &PullConfig{
		From:     "",
		Attempts: 3,
	}
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the latest snippets from the remote repository",
	Long: `Fetch the latest snippets for the active repository.

A missing repository is cloned first, from --from or from the community
snippet repository. An existing repository is pulled with retries and
exponential backoff, since flaky networks are the common failure here.

Example:
  snipmd pull
  snipmd pull --from https://github.com/acme/team-snippets`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getPullConfigFromFlags(cmd)

		cfg := loadConfig(ctx)
		repoName := activeRepoName(ctx, &cfg)
		repo, err := openRepo(repoName)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}

		dir, err := appconf.RepoDir(repoName)
		if err != nil {
			presenter.Error(err, "Failed to locate the repository directory")
			os.Exit(1)
		}

		if !repo.Initialized() {
			url := config.From
			if url == "" {
				url = appconf.DefaultCommunityRepoURL
			}
			presenter.Info(fmt.Sprintf("Cloning %s...", url))

			// A stale half-created directory would make the clone fail.
			if err := os.RemoveAll(dir); err != nil {
				presenter.Error(err, "Failed to clear the repository directory")
				os.Exit(1)
			}
			if err := gitrepo.Clone(ctx, url, dir); err != nil {
				presenter.Warning(fmt.Sprintf("Clone failed: %v", err))
				presenter.Info("Starting an empty local repository instead")
				if err := repo.Bootstrap(ctx); err != nil {
					presenter.Error(err, "Failed to initialize the snippet repository")
					os.Exit(1)
				}
			} else {
				presenter.Success(fmt.Sprintf("Cloned into %s", dir))
			}
		} else {
			presenter.Info("Pulling latest snippets...")
			err := retry.Do(
				func() error {
					return repo.Pull(ctx)
				},
				retry.Attempts(config.Attempts),
				retry.Delay(time.Second),
				retry.DelayType(retry.BackOffDelay),
				retry.Context(ctx),
				retry.OnRetry(func(n uint, err error) {
					logger.G(ctx).WithError(err).WithField("attempt", n+1).Debug("Pull failed, retrying")
					presenter.Warning(fmt.Sprintf("Pull failed (attempt %d), retrying...", n+1))
				}),
			)
			if err != nil {
				presenter.Error(err, "Failed to pull from origin")
				os.Exit(1)
			}
		}

		snippetsDir, err := appconf.SnippetsDir(repoName)
		if err != nil {
			presenter.Error(err, "Failed to locate the snippets directory")
			os.Exit(1)
		}
		store := snippet.NewStore(snippetsDir)
		snippets, err := store.List(ctx)
		if err != nil {
			presenter.Error(err, "Failed to count snippets")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Repository %q has %d snippet(s)", repoName, len(snippets)))
	},
}

func init() {
	pullDefaults := NewPullConfig()
	pullCmd.Flags().String("from", pullDefaults.From, "Repository URL to clone when the local copy is missing")
	pullCmd.Flags().Uint("attempts", pullDefaults.Attempts, "Pull attempts before giving up")
}

// getPullConfigFromFlags extracts pull configuration from command flags
func getPullConfigFromFlags(cmd *cobra.Command) *PullConfig {
	config := NewPullConfig()

	if from, err := cmd.Flags().GetString("from"); err == nil {
		config.From = from
	}
	if attempts, err := cmd.Flags().GetUint("attempts"); err == nil && attempts > 0 {
		config.Attempts = attempts
	}

	return config
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/appconf"
	"github.com/snipmd/snipmd/pkg/gitrepo"
	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit and push local snippet changes",
	Long: `Synchronize the active snippet repository with its GitHub remote.

The repository is initialized on first use. Local changes are committed
and pushed to origin; remote changes are rebased in first.

Example:
  snipmd sync
  snipmd sync --repo work`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg := loadConfig(ctx)
		repoName := activeRepoName(ctx, &cfg)
		repo, err := openRepo(repoName)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}

		if err := runSync(ctx, repo, repoName); err != nil {
			presenter.Error(err, "Sync failed")
			if strings.Contains(err.Error(), "pushing to origin") {
				presenter.Info("If the repository has no remote yet, run 'snipmd setup <repo-name>' first")
			}
			os.Exit(1)
		}
	},
}

// openRepo returns the git handle for a named snippet repository.
func openRepo(name string) (*gitrepo.Repo, error) {
	if !gitrepo.GitInstalled() {
		return nil, errors.New("git not found on PATH")
	}
	dir, err := appconf.RepoDir(name)
	if err != nil {
		return nil, errors.Wrap(err, "locating the repository directory")
	}
	return gitrepo.New(dir), nil
}

// runSync brings the repository up to date with origin: rebase on the
// remote, stage everything, commit when there are changes, push. Shared
// by sync and watch.
func runSync(ctx context.Context, repo *gitrepo.Repo, repoName string) error {
	if !repo.Initialized() {
		presenter.Info(fmt.Sprintf("Initializing snippet repository %q...", repoName))
		if err := repo.Bootstrap(ctx); err != nil {
			return errors.Wrap(err, "initializing the repository")
		}
	}

	if err := repo.PullRebase(ctx); err != nil {
		// A remote without commits is routine on first sync.
		if !strings.Contains(err.Error(), "no such ref") {
			presenter.Warning(fmt.Sprintf("Pull failed, continuing: %v", err))
		}
		logger.G(ctx).WithError(err).Debug("Pull before sync failed")
	}

	if err := repo.AddAll(ctx); err != nil {
		return errors.Wrap(err, "staging changes")
	}

	count, err := repo.ChangeCount(ctx)
	if err != nil {
		return errors.Wrap(err, "inspecting the repository status")
	}
	if count == 0 {
		presenter.Success("Already up to date")
		return nil
	}

	if err := repo.Commit(ctx, syncCommitMessage(count)); err != nil {
		return errors.Wrap(err, "committing changes")
	}

	presenter.Info("Pushing to origin...")
	if err := repo.Push(ctx); err != nil {
		return errors.Wrap(err, "pushing to origin")
	}

	presenter.Success(fmt.Sprintf("Synced %d change(s) to origin", count))
	return nil
}

func syncCommitMessage(count int) string {
	return fmt.Sprintf("Sync snippets: %d change(s)", count)
}

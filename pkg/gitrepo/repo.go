// Package gitrepo manages snippet repositories through the git and gh
// command line tools. All remote traffic goes through those subprocesses;
// the package never speaks a wire protocol itself.
package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/snipmd/snipmd/pkg/logger"
)

const seedGitignore = "# Temp files\n*.tmp\n*.swp\n*~\n\n# OS files\n.DS_Store\nThumbs.db\n"

const seedReadme = `# CLAUDE.md Snippets

This repository contains shared CLAUDE.md snippets.

## Structure

- ` + "`snippets/`" + ` - Contains all snippet files
- Each snippet is stored as a markdown file with YAML frontmatter

## Usage

Use the ` + "`snipmd`" + ` CLI tool to publish, install, and search snippets.
`

// Repo is a local git working copy managed through the git CLI.
type Repo struct {
	Dir string
}

// New returns a Repo rooted at dir. The directory does not need to exist
// yet; Bootstrap creates it.
func New(dir string) *Repo {
	return &Repo{Dir: dir}
}

// GitInstalled reports whether the git CLI is on PATH.
func GitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Initialized reports whether the directory already holds a git repository.
func (r *Repo) Initialized() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), errors.Wrapf(err, "git %s: %s", args[0], strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// Bootstrap initializes a fresh snippet repository: git init on main, seed
// files, a git identity when the global one is missing, and an initial
// commit. A failed initial commit is logged rather than fatal so a
// half-configured machine still ends up with a usable working copy.
func (r *Repo) Bootstrap(ctx context.Context) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return errors.Wrap(err, "creating repository directory")
	}
	if _, err := r.run(ctx, "init"); err != nil {
		return err
	}
	// Older git cannot rename the unborn branch; ignore the failure and
	// let the initial commit land on the default branch.
	r.run(ctx, "branch", "-M", "main")

	if err := os.WriteFile(filepath.Join(r.Dir, ".gitignore"), []byte(seedGitignore), 0o644); err != nil {
		return errors.Wrap(err, "writing .gitignore")
	}
	if err := os.WriteFile(filepath.Join(r.Dir, "README.md"), []byte(seedReadme), 0o644); err != nil {
		return errors.Wrap(err, "writing README.md")
	}
	if err := os.MkdirAll(filepath.Join(r.Dir, "snippets"), 0o755); err != nil {
		return errors.Wrap(err, "creating snippets directory")
	}
	if err := r.ConfigureIdentity(ctx); err != nil {
		return err
	}
	if _, err := r.run(ctx, "add", "."); err != nil {
		return err
	}
	if err := r.Commit(ctx, "Initial commit"); err != nil {
		logger.G(ctx).WithError(err).Warn("could not create initial commit")
	}
	return nil
}

// ConfigureIdentity sets a repository-local git identity when no global
// user.name and user.email are configured. The identity comes from the
// authenticated gh user when available.
func (r *Repo) ConfigureIdentity(ctx context.Context) error {
	if globalIdentitySet(ctx) {
		return nil
	}
	login, email := GhUserInfo(ctx)
	if _, err := r.run(ctx, "config", "user.name", login); err != nil {
		return err
	}
	_, err := r.run(ctx, "config", "user.email", email)
	return err
}

func globalIdentitySet(ctx context.Context) bool {
	name := exec.CommandContext(ctx, "git", "config", "--global", "user.name").Run()
	email := exec.CommandContext(ctx, "git", "config", "--global", "user.email").Run()
	return name == nil && email == nil
}

// AddAll stages every change in the working tree, deletions included.
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "-A")
	return err
}

// ChangeCount returns the number of paths with uncommitted changes.
func (r *Repo) ChangeCount(ctx context.Context) (int, error) {
	out, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return 0, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return 0, nil
	}
	return len(strings.Split(out, "\n")), nil
}

// HasChanges reports whether anything is uncommitted.
func (r *Repo) HasChanges(ctx context.Context) (bool, error) {
	n, err := r.ChangeCount(ctx)
	return n > 0, err
}

// Commit records staged changes. The message is passed through a temp file
// so multi-line subjects and bodies survive intact.
func (r *Repo) Commit(ctx context.Context, message string) error {
	tempFile, err := os.CreateTemp("", "snipmd-commit-*.txt")
	if err != nil {
		return errors.Wrap(err, "creating commit message file")
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(message); err != nil {
		tempFile.Close()
		return errors.Wrap(err, "writing commit message")
	}
	tempFile.Close()

	_, err = r.run(ctx, "commit", "-F", tempFile.Name())
	return err
}

// Pull fetches and merges origin/main.
func (r *Repo) Pull(ctx context.Context) error {
	_, err := r.run(ctx, "pull", "origin", "main")
	return err
}

// PullRebase fetches origin/main and rebases local commits on top of it,
// keeping the sync history linear.
func (r *Repo) PullRebase(ctx context.Context) error {
	_, err := r.run(ctx, "pull", "--rebase", "origin", "main")
	return err
}

// PullMerge merges origin/main even when the local and remote histories
// share no common ancestor, which happens when pushing into a repository
// that GitHub seeded with its own initial commit.
func (r *Repo) PullMerge(ctx context.Context) error {
	_, err := r.run(ctx, "pull", "origin", "main", "--allow-unrelated-histories", "--no-rebase")
	return err
}

// Push publishes main to origin.
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.run(ctx, "push", "origin", "main")
	return err
}

// PushUpstream publishes main and records origin as its upstream.
func (r *Repo) PushUpstream(ctx context.Context) error {
	_, err := r.run(ctx, "push", "-u", "origin", "main")
	return err
}

// RemoteURL returns the URL of the origin remote.
func (r *Repo) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SetRemote points origin at url, replacing any existing origin.
func (r *Repo) SetRemote(ctx context.Context, url string) error {
	output, err := r.run(ctx, "remote", "add", "origin", url)
	if err == nil {
		return nil
	}
	if strings.Contains(output, "already exists") {
		_, err = r.run(ctx, "remote", "set-url", "origin", url)
	}
	return err
}

// Clone checks out url into dir, creating the parent directory as needed.
func Clone(ctx context.Context, url, dir string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return errors.Wrap(err, "creating repos directory")
	}
	cmd := exec.CommandContext(ctx, "git", "clone", url, filepath.Base(dir))
	cmd.Dir = parent
	if output, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "git clone %s: %s", url, strings.TrimSpace(string(output)))
	}
	return nil
}

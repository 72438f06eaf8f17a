package gitrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrRepoExists reports that the GitHub repository already exists.
var ErrRepoExists = errors.New("repository already exists")

const (
	fallbackLogin = "snipmd-user"
	fallbackEmail = "snipmd-user@users.noreply.github.com"
)

// GhInstalled reports whether the GitHub CLI is on PATH.
func GhInstalled() bool {
	return exec.Command("gh", "--version").Run() == nil
}

// GhAuthenticated reports whether gh has stored credentials.
func GhAuthenticated() bool {
	return exec.Command("gh", "auth", "status").Run() == nil
}

// GhUsername returns the login of the authenticated gh user.
func GhUsername(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "gh", "api", "user", "--jq", ".login").Output()
	if err != nil {
		return "", errors.Wrap(err, "querying gh for the authenticated user")
	}
	return strings.TrimSpace(string(out)), nil
}

// GhUserInfo returns the login and email of the authenticated gh user,
// falling back to placeholder values when gh is unavailable. Users who
// hide their email get the noreply address GitHub assigns.
func GhUserInfo(ctx context.Context) (login, email string) {
	login = fallbackLogin
	email = fallbackEmail

	out, err := exec.CommandContext(ctx, "gh", "api", "user").Output()
	if err != nil {
		return login, email
	}
	var user struct {
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(out, &user); err != nil || user.Login == "" {
		return login, email
	}
	login = user.Login
	email = user.Email
	if email == "" {
		email = login + "@users.noreply.github.com"
	}
	return login, email
}

// GhRepoCreate creates a repository under the authenticated user's account.
// Returns ErrRepoExists when the repository is already there.
func GhRepoCreate(ctx context.Context, name string, private bool) error {
	visibility := "--public"
	if private {
		visibility = "--private"
	}
	cmd := exec.CommandContext(ctx, "gh", "repo", "create", name, visibility,
		"--description", "Personal CLAUDE.md snippets")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(output), "already exists") {
			return ErrRepoExists
		}
		return errors.Wrapf(err, "gh repo create: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// CloneURL returns the HTTPS clone URL for a repository.
func CloneURL(owner, name string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, name)
}

// WebURL returns the browser URL for a repository.
func WebURL(owner, name string) string {
	return fmt.Sprintf("https://github.com/%s/%s", owner, name)
}

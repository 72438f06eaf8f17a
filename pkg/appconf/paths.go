// Package appconf resolves snipmd's on-disk layout and user configuration.
//
// Everything lives under ~/.snipmd (override with SNIPMD_BASE_PATH):
// cloned snippet repositories under repos/, the YAML config file, and the
// history database. Drafts produced by extract are project-local.
package appconf

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	appDirName    = ".snipmd"
	configName    = "config.yaml"
	historyDBName = "history.db"
)

// DefaultCommunityRepoURL is cloned when pulling with no repository
// configured yet.
const DefaultCommunityRepoURL = "https://github.com/snipmd/community-snippets"

// Dir returns the application directory, honoring SNIPMD_BASE_PATH.
func Dir() (string, error) {
	if base := os.Getenv("SNIPMD_BASE_PATH"); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, appDirName), nil
}

// ReposDir returns the directory holding all snippet repository clones.
func ReposDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repos"), nil
}

// RepoDir returns the working copy directory for a named repository.
func RepoDir(name string) (string, error) {
	repos, err := ReposDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(repos, name), nil
}

// SnippetsDir returns the snippets subdirectory of a named repository.
func SnippetsDir(name string) (string, error) {
	repo, err := RepoDir(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(repo, "snippets"), nil
}

// ConfigPath returns the location of the YAML config file.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName), nil
}

// HistoryDBPath returns the location of the history database.
func HistoryDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyDBName), nil
}

// DraftsDir returns the project-local directory extract writes drafts to.
func DraftsDir() string {
	return filepath.Join(appDirName, "drafts")
}

// Package claudemd reads and writes the CLAUDE.md documents that snippets
// are installed into. A document may live in the current project or in the
// user's home configuration; either way it is treated as opaque text and
// replaced atomically, never locked, so a failed write leaves the previous
// content intact.
package claudemd

import (
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
)

// Scope selects which CLAUDE.md a command operates on.
type Scope string

const (
	// ScopeLocal is the project document in the current working directory.
	ScopeLocal Scope = "local"
	// ScopeUser is the per-user document under ~/.claude.
	ScopeUser Scope = "user"
)

// ParseScope validates a user-supplied scope name.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeLocal, ScopeUser:
		return Scope(s), nil
	default:
		return "", errors.Errorf("unknown install location %q (expected %q or %q)", s, ScopeLocal, ScopeUser)
	}
}

// Target is a resolved CLAUDE.md document path.
type Target struct {
	Scope Scope
	Path  string
}

// Resolve maps a scope to its document. The local document is CLAUDE.md in
// the current working directory; the user document is ~/.claude/CLAUDE.md.
func Resolve(scope Scope) (Target, error) {
	switch scope {
	case ScopeLocal:
		return Target{Scope: scope, Path: "CLAUDE.md"}, nil
	case ScopeUser:
		home, err := os.UserHomeDir()
		if err != nil {
			return Target{}, errors.Wrap(err, "resolving home directory")
		}
		return Target{Scope: scope, Path: filepath.Join(home, ".claude", "CLAUDE.md")}, nil
	default:
		return Target{}, errors.Errorf("unknown install location %q", scope)
	}
}

// Exists reports whether the document is present on disk.
func (t Target) Exists() bool {
	_, err := os.Stat(t.Path)
	return err == nil
}

// Read returns the document's content. A missing file reads as an empty
// document so first-time installs need no setup step.
func (t Target) Read() (string, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "reading %s", t.Path)
	}
	return string(data), nil
}

// Write replaces the document's content. The content lands in a sibling
// temp file first and is renamed into place, so an interrupted write never
// leaves a half-written document behind.
func (t Target) Write(content string) error {
	dir := filepath.Dir(t.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	tempPath := t.Path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", tempPath)
	}
	if err := os.Rename(tempPath, t.Path); err != nil {
		os.Remove(tempPath)
		return errors.Wrapf(err, "replacing %s", t.Path)
	}
	return nil
}

// Diff renders a unified diff between two versions of the document.
func (t Target) Diff(before, after string) string {
	return udiff.Unified(t.Path, t.Path, before, after)
}

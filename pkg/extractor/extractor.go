// Package extractor pulls topic-focused drafts out of an existing
// CLAUDE.md by delegating the reading to the claude CLI.
package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"

	"github.com/snipmd/snipmd/pkg/osutil"
)

const draftHeader = "# %s\n\n<!-- Extracted from ~/.claude/CLAUDE.md using snipmd -->\n<!-- Query: %s -->\n<!-- Date: %s -->\n\n%s"

// Extractor shells out to the claude CLI to extract content about a topic
// from a CLAUDE.md document.
type Extractor struct {
	bin string
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBin overrides the claude binary.
func WithBin(bin string) Option {
	return func(e *Extractor) {
		e.bin = bin
	}
}

// WithClock fixes the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New returns an Extractor that uses the claude binary on PATH.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		bin: "claude",
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether the claude CLI can be invoked.
func (e *Extractor) Available() bool {
	_, err := exec.LookPath(e.bin)
	return err == nil
}

// Extract asks claude to read the document at sourcePath and pull out
// everything relevant to query, returning an annotated draft.
func (e *Extractor) Extract(ctx context.Context, query, sourcePath string) (string, error) {
	prompt := fmt.Sprintf("Read the file %s and extract all relevant information about '%s' from the CLAUDE.md file. "+
		"Include any related sections, instructions, code examples, or configuration details. "+
		"Format the output as a clean markdown snippet that can be used independently.",
		sourcePath, query)

	cmd := exec.CommandContext(ctx, e.bin,
		"--dangerously-skip-permissions",
		"--print",
		prompt,
	)
	// claude spawns its own children; kill the whole group on cancellation
	osutil.SetProcessGroup(cmd)
	osutil.SetProcessGroupKill(cmd)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.Errorf("claude failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", errors.Wrap(err, "running claude")
	}

	return e.buildDraft(query, string(out)), nil
}

func (e *Extractor) buildDraft(query, raw string) string {
	date := e.now().UTC().Format("2006-01-02 15:04:05 UTC")
	return fmt.Sprintf(draftHeader, query, query, date, strings.TrimSpace(raw))
}

// SaveDraft writes draft content under dir and returns the file path.
func SaveDraft(dir, query, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating drafts directory")
	}
	path := filepath.Join(dir, SanitizeFilename(query)+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "writing draft")
	}
	return path, nil
}

// SanitizeFilename converts a free-form query into a safe lowercase
// filename stem. Letters, digits, hyphens and underscores survive;
// everything else becomes an underscore.
func SanitizeFilename(input string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, input)
	return strings.ToLower(mapped)
}

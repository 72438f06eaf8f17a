package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/osutil"
)

// DefaultClaudeBin is the executable consulted for semantic matching.
const DefaultClaudeBin = "claude"

// ClaudeResolver asks the claude CLI to pick the best candidate. The
// candidates are written to a temp JSON file the prompt points at, so the
// subprocess reads full contents instead of receiving them as arguments.
// When the binary is missing or the subprocess fails the resolver abstains
// and the next resolver in the chain takes over; only an explicit NONE
// answer rules the query out.
type ClaudeResolver struct {
	Bin string
}

type analysisFile struct {
	Query    string      `json:"query"`
	Snippets []Candidate `json:"snippets"`
}

// Resolve implements Resolver.
func (r *ClaudeResolver) Resolve(ctx context.Context, query string, candidates []Candidate) (string, bool, error) {
	bin := r.Bin
	if bin == "" {
		bin = DefaultClaudeBin
	}
	log := logger.G(ctx)

	if _, err := exec.LookPath(bin); err != nil {
		log.WithField("bin", bin).Debug("claude not available, skipping semantic resolution")
		return "", false, nil
	}

	path, err := writeAnalysisFile(query, candidates)
	if err != nil {
		return "", false, err
	}
	defer os.Remove(path)

	cmd := exec.CommandContext(ctx, bin,
		"--dangerously-skip-permissions", "--non-interactive", buildPrompt(query, path))
	osutil.SetProcessGroup(cmd)
	osutil.SetProcessGroupKill(cmd)

	out, err := cmd.Output()
	if err != nil {
		log.WithError(err).Warn("claude resolution failed, falling back")
		return "", false, nil
	}

	return matchResponse(strings.TrimSpace(string(out)), candidates)
}

func writeAnalysisFile(query string, candidates []Candidate) (string, error) {
	data, err := json.MarshalIndent(analysisFile{Query: query, Snippets: candidates}, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding analysis file")
	}

	f, err := os.CreateTemp("", "snipmd-analysis-*.json")
	if err != nil {
		return "", errors.Wrap(err, "creating analysis file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrap(err, "writing analysis file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(err, "closing analysis file")
	}
	return f.Name(), nil
}

func buildPrompt(query, path string) string {
	return fmt.Sprintf("Analyze the following snippets and find the best match for the query: '%s'\n"+
		"Return only the ID of the best matching snippet, or 'NONE' if no good match exists.\n"+
		"Consider semantic similarity, keywords, and practical relevance.\n"+
		"File: %s", query, path)
}

// matchResponse maps the subprocess answer to a candidate id. The answer
// may be a full id, a prefix of one, or prose containing one; anything else
// abstains so the chain can fall back.
func matchResponse(response string, candidates []Candidate) (string, bool, error) {
	if response == "NONE" {
		return "", false, ErrNoMatch
	}
	if response == "" {
		return "", false, nil
	}
	for _, cand := range candidates {
		if strings.HasPrefix(cand.ID, response) || strings.Contains(response, cand.ID) {
			return cand.ID, true, nil
		}
	}
	return "", false, nil
}

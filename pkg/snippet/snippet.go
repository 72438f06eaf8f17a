// Package snippet defines the snippet record and the repository-backed
// store that publishes, lists, and retrieves records. A record is a
// Markdown file with a YAML frontmatter header; the body is opaque text the
// store never interprets.
package snippet

import (
	"strings"
	"time"
)

// Snippet is one published record.
type Snippet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	Path        string    `json:"path,omitempty"`
}

// PreviewLines is how many content lines confirmation prompts show.
const PreviewLines = 5

// Preview returns the first maxLines lines of the content, marking
// truncation when more follow.
func (s *Snippet) Preview(maxLines int) string {
	lines := strings.Split(strings.TrimSuffix(s.Content, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:maxLines], "\n") + "\n... (truncated)"
}

// DeriveName produces a display name from content: the first few words of
// the first non-heading line, else the first heading, else a timestamped
// placeholder.
func DeriveName(content string, now time.Time) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		words := strings.Fields(trimmed)
		if len(words) > 4 {
			words = words[:4]
		}
		return strings.Join(words, " ")
	}

	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if header := strings.TrimSpace(strings.TrimLeft(line, "#")); header != "" {
			return header
		}
	}

	return "snippet-" + now.Format("20060102-1504")
}

// Filename is the repository file name for a record: the name with spaces
// dashed and lowercased, suffixed with the id.
func Filename(name, id string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + id + ".md"
}

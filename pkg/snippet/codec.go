package snippet

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	CreatedAt   string `yaml:"created_at"`
	Description string `yaml:"description,omitempty"`
	Source      string `yaml:"source,omitempty"`
}

// Encode renders a record in its stored form: a fenced YAML frontmatter
// header, a blank separator line, then the content verbatim.
func Encode(s *Snippet) ([]byte, error) {
	fm := frontmatter{
		ID:          s.ID,
		Name:        s.Name,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		Description: s.Description,
		Source:      s.Source,
	}
	head, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(s.Content)
	return buf.Bytes(), nil
}

// Decode parses a stored record. The frontmatter must carry an id; the
// content is everything after the closing fence with leading blank lines
// stripped, so bodies beginning with text round-trip byte-for-byte.
func Decode(data []byte) (*Snippet, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(data, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "parsing markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	s := &Snippet{
		ID:          metaString(metaData, "id"),
		Name:        metaString(metaData, "name"),
		Description: metaString(metaData, "description"),
		Source:      metaString(metaData, "source"),
		Content:     extractBody(string(data)),
	}
	if s.ID == "" {
		return nil, errors.New("frontmatter id is required")
	}
	// Older encoders wrote the literal string "null" for an absent
	// description.
	if s.Description == "null" {
		s.Description = ""
	}

	switch v := metaData["created_at"].(type) {
	case time.Time:
		s.CreatedAt = v
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			s.CreatedAt = ts
		}
	}

	return s, nil
}

func metaString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// extractBody strips the frontmatter fence block from the raw file,
// returning the content untouched apart from leading newlines.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	fenceEnd := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fenceEnd = i
			break
		}
	}
	if fenceEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[fenceEnd+1:], "\n"), "\n")
}

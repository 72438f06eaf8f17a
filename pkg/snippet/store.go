package snippet

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/snipmd/snipmd/pkg/idgen"
	"github.com/snipmd/snipmd/pkg/logger"
)

// ErrNotFound reports a lookup for an id with no record in the store.
var ErrNotFound = errors.New("snippet not found")

// Store reads and writes records under a repository's snippets directory.
// There is no index; every listing walks the directory so the filesystem
// stays the single source of truth.
type Store struct {
	dir string
	gen idgen.Generator
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithGenerator overrides the id generator, used by tests to pin ids.
func WithGenerator(gen idgen.Generator) Option {
	return func(s *Store) {
		s.gen = gen
	}
}

// WithClock overrides the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on the first publish; a missing directory lists as empty.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, gen: idgen.New, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// List returns every decodable record, newest first. Files that fail to
// decode are skipped with a debug log so one bad file cannot hide the rest.
func (s *Store) List(ctx context.Context) ([]*Snippet, error) {
	var snippets []*Snippet
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrapf(err, "reading %s", p)
		}
		snip, err := Decode(data)
		if err != nil {
			logger.G(ctx).WithField("path", p).WithError(err).Debug("skipping undecodable snippet file")
			return nil
		}
		snip.Path = p
		snippets = append(snippets, snip)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", s.dir)
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].CreatedAt.After(snippets[j].CreatedAt)
	})
	return snippets, nil
}

// ListMatching returns records whose store-relative path or file name
// matches the doublestar pattern.
func (s *Store) ListMatching(ctx context.Context, pattern string) ([]*Snippet, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q", pattern)
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*Snippet, 0, len(all))
	for _, snip := range all {
		rel, err := filepath.Rel(s.dir, snip.Path)
		if err != nil {
			rel = filepath.Base(snip.Path)
		}
		rel = filepath.ToSlash(rel)

		ok, _ := doublestar.Match(pattern, rel)
		if !ok {
			ok, _ = doublestar.Match(pattern, path.Base(rel))
		}
		if ok {
			matched = append(matched, snip)
		}
	}
	return matched, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Snippet, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, snip := range all {
		if snip.ID == id {
			return snip, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "id %s", id)
}

// PublishRequest carries the caller-supplied fields of a new record.
type PublishRequest struct {
	Name        string
	Description string
	Source      string
	Content     string
}

// Publish assigns identity to a new record and writes it to the store. The
// name falls back to one derived from the content when the request leaves
// it empty.
func (s *Store) Publish(ctx context.Context, req PublishRequest) (*Snippet, error) {
	now := s.now().UTC().Truncate(time.Second)
	name := req.Name
	if name == "" {
		name = DeriveName(req.Content, now)
	}

	snip := &Snippet{
		ID:          s.gen(),
		Name:        name,
		Description: req.Description,
		Source:      req.Source,
		Content:     req.Content,
		CreatedAt:   now,
	}

	data, err := Encode(snip)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", s.dir)
	}

	snip.Path = filepath.Join(s.dir, Filename(snip.Name, snip.ID))
	if err := os.WriteFile(snip.Path, data, 0644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", snip.Path)
	}

	logger.G(ctx).WithField("id", snip.ID).WithField("path", snip.Path).Debug("published snippet")
	return snip, nil
}

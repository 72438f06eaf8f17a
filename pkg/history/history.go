// Package history records install, uninstall and publish events in a
// local SQLite database so users can audit what snipmd changed and when.
package history

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/snipmd/snipmd/pkg/db"
	"github.com/snipmd/snipmd/pkg/db/migrations"
	"github.com/snipmd/snipmd/pkg/logger"
)

// Actions recorded in the event log.
const (
	ActionInstall   = "install"
	ActionUninstall = "uninstall"
	ActionPublish   = "publish"
)

// Event is one recorded mutation.
type Event struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	SnippetID string    `db:"snippet_id" json:"snippet_id"`
	Name      string    `db:"name" json:"name"`
	Target    string    `db:"target" json:"target"`
	Repo      string    `db:"repo" json:"repo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Store persists events. A nil *Store ignores writes, which is how
// disabled history is represented.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the history database at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	runner := db.NewMigrationRunner(conn)
	if err := runner.Run(ctx, migrations.All()); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to migrate history database")
	}

	return &Store{db: conn}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one event. A zero CreatedAt is filled with the current
// time.
func (s *Store) Record(ctx context.Context, event Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history_events (action, snippet_id, name, target, repo, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.Action, event.SnippetID, event.Name, event.Target, event.Repo, event.CreatedAt)
	return errors.Wrap(err, "failed to record history event")
}

// TryRecord records the event, logging failures instead of returning
// them. Safe to call on a nil store.
func (s *Store) TryRecord(ctx context.Context, event Event) {
	if s == nil {
		return
	}
	if err := s.Record(ctx, event); err != nil {
		logger.G(ctx).WithError(err).Warn("could not record history event")
	}
}

// Recent returns the latest events, newest first. A non-positive limit
// defaults to 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	var events []Event
	err := s.db.SelectContext(ctx, &events, `
		SELECT id, action, snippet_id, name, target, repo, created_at
		FROM history_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load history events")
	}
	return events, nil
}

package migrations

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/snipmd/snipmd/pkg/db"
)

// Migration20250812120000CreateHistoryEvents creates the history_events
// table that records every install, uninstall and publish.
func Migration20250812120000CreateHistoryEvents() db.Migration {
	return db.Migration{
		Version:     20250812120000,
		Description: "Create history_events table",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS history_events (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					action TEXT NOT NULL,
					snippet_id TEXT NOT NULL,
					name TEXT NOT NULL,
					target TEXT NOT NULL,
					repo TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)
			`); err != nil {
				return errors.Wrap(err, "failed to create history_events table")
			}

			if _, err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_history_events_created_at
				ON history_events(created_at)
			`); err != nil {
				return errors.Wrap(err, "failed to create created_at index")
			}

			return nil
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS history_events")
			return errors.Wrap(err, "failed to drop history_events table")
		},
	}
}

// Package migrations contains all database migrations for snipmd.
// Migrations use Rails-style timestamp versioning (YYYYMMDDHHmmss).
package migrations

import (
	"github.com/snipmd/snipmd/pkg/db"
)

// All returns all registered migrations in the correct order.
// New migrations should be added to this list.
func All() []db.Migration {
	return []db.Migration{
		Migration20250812120000CreateHistoryEvents(),
	}
}

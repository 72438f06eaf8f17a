// Package db provides the shared SQLite plumbing for snipmd's local
// state: connection setup with WAL-mode pragmas and a timestamp-versioned
// migration runner. Callers decide where the database file lives.
package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Open opens or creates a SQLite database at the given path, creating the
// parent directory as needed.
func Open(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	conn, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := Configure(ctx, conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to configure database")
	}

	return conn, nil
}

// Configure sets up SQLite pragmas for WAL mode operation.
func Configure(ctx context.Context, conn *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=1000",
		"PRAGMA temp_store=memory",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}

	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)

	var journalMode string
	if err := conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("WAL mode not enabled. Current mode: %s", journalMode)
	}

	return nil
}

// VerifyConfiguration checks that the connection is in WAL mode with the
// expected pragmas.
func VerifyConfiguration(conn *sqlx.DB) error {
	var journalMode string
	if err := conn.Get(&journalMode, "PRAGMA journal_mode"); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("expected WAL mode, got %s", journalMode)
	}

	var synchronous string
	if err := conn.Get(&synchronous, "PRAGMA synchronous"); err != nil {
		return errors.Wrap(err, "failed to query synchronous mode")
	}
	if synchronous != "1" {
		return errors.Errorf("expected NORMAL synchronous mode, got %s", synchronous)
	}

	var foreignKeys string
	if err := conn.Get(&foreignKeys, "PRAGMA foreign_keys"); err != nil {
		return errors.Wrap(err, "failed to query foreign keys")
	}
	if foreignKeys != "1" {
		return errors.Errorf("expected foreign keys ON, got %s", foreignKeys)
	}

	return nil
}

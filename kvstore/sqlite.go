/*
sqlite.go - SQLite storage backend

PURPOSE:
  Single-file durable backend. One table holds every namespace; the
  (namespace, key) pair is the primary key and writes are upserts, which
  gives the same overwrite-whole-document semantics as the object-store
  backends.

WAL MODE:
  Opened with WAL so a reader (session list) never blocks the single
  writer (seed upload).

USAGE:
  store, err := kvstore.NewSQLite("./data/count.db")
  Use ":memory:" for an in-memory database in tests.
*/
package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store over a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and migrates) a SQLite-backed store at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "count.db"
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		namespace  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		PRIMARY KEY (namespace, key)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Namespace(name string) Namespace {
	return &sqliteNamespace{db: s.db, name: name}
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Driver() Driver { return DriverSQLite }

func (s *SQLiteStore) Close() error { return s.db.Close() }

type sqliteNamespace struct {
	db   *sql.DB
	name string
}

func (n *sqliteNamespace) List(ctx context.Context) ([]string, error) {
	rows, err := n.db.QueryContext(ctx,
		`SELECT key FROM documents WHERE namespace = ? ORDER BY key`, n.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (n *sqliteNamespace) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := n.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE namespace = ? AND key = ?`, n.name, key).
		Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	return value, err
}

func (n *sqliteNamespace) Set(ctx context.Context, key string, value []byte) error {
	_, err := n.db.ExecContext(ctx, `
		INSERT INTO documents (namespace, key, value, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		n.name, key, value)
	return err
}

func (n *sqliteNamespace) Delete(ctx context.Context, key string) error {
	_, err := n.db.ExecContext(ctx,
		`DELETE FROM documents WHERE namespace = ? AND key = ?`, n.name, key)
	return err
}

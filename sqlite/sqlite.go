// Package sqlite provides the SQLite-backed article store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait up to 5 seconds on lock contention instead of failing with
	// "database is locked".
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// In-memory databases do not support WAL.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
// JSON columns hold the glossary, coverage metrics and term lists.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT '',
			strategy TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			original TEXT NOT NULL DEFAULT '',
			glossary TEXT NOT NULL DEFAULT '[]',
			coverage TEXT NOT NULL DEFAULT 'null',
			analysis TEXT NOT NULL DEFAULT '',
			manual_terms TEXT NOT NULL DEFAULT '[]',
			detected_terms TEXT NOT NULL DEFAULT '[]',
			content_hash TEXT NOT NULL DEFAULT '',
			counts_applied INTEGER NOT NULL DEFAULT 0,
			counts_applied_at TEXT NOT NULL DEFAULT '',
			counts_applied_encounters TEXT NOT NULL DEFAULT '{}',
			imported_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_articles_source_url ON articles(source_url);
		CREATE INDEX IF NOT EXISTS idx_articles_imported_at ON articles(imported_at);
	`

	if _, err := db.db.Exec(schema); err != nil {
		return err
	}
	return db.addMissingColumns()
}

// addMissingColumns upgrades article tables created before the applied
// encounters were recorded. Existing rows decode to nil encounters.
func (db *DB) addMissingColumns() error {
	var n int
	if err := db.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('articles') WHERE name = 'counts_applied_encounters'
	`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := db.db.Exec(`ALTER TABLE articles ADD COLUMN counts_applied_encounters TEXT NOT NULL DEFAULT 'null'`)
	return err
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/knitcount/internal/repository"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite database connection. The pool holds a single
// connection: SQLite has one writer, and an in-memory database lives only
// as long as its connection.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Stores returns stores that run outside any transaction.
func (db *DB) Stores() repository.Stores {
	return storesFor(db.DB)
}

// WithinTx runs fn against stores bound to one transaction. Stores obtained
// from Stores must not be used inside fn: the pool has one connection and
// the transaction holds it.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Stores) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, storesFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func storesFor(q querier) repository.Stores {
	return repository.Stores{
		Projects: &ProjectStore{q: q},
		Parts:    &PartStore{q: q},
		Counters: &CounterStore{q: q},
	}
}

// RunMigrations creates the schema. It is safe to run on every start.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed INTEGER NOT NULL DEFAULT 0,
    type TEXT NOT NULL DEFAULT 'knitting' CHECK(type IN ('knitting', 'crochet')),
    rows_completed INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Parts table
CREATE TABLE IF NOT EXISTS parts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owning_project_id INTEGER NOT NULL,
    is_current INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (owning_project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_project_parts ON parts(owning_project_id);

-- Counters table
CREATE TABLE IF NOT EXISTS counters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    value INTEGER NOT NULL DEFAULT 0,
    increment_by INTEGER NOT NULL DEFAULT 1,
    type TEXT NOT NULL DEFAULT 'normal' CHECK(type IN ('normal', 'global', 'stitch')),
    is_globally_linked INTEGER NOT NULL DEFAULT 0,
    reset_row INTEGER NOT NULL DEFAULT 0,
    max_resets INTEGER NOT NULL DEFAULT 0,
    num_resets INTEGER NOT NULL DEFAULT 0,
    owning_part_id INTEGER NOT NULL,
    version INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (owning_part_id) REFERENCES parts(id)
);
CREATE INDEX IF NOT EXISTS idx_part_counters ON counters(owning_part_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_part_fixed_counters ON counters(owning_part_id, type) WHERE type != 'normal';

-- Full-text search over project names and descriptions (SQLite FTS5)
CREATE VIRTUAL TABLE IF NOT EXISTS projects_fts USING fts5(
    name,
    description,
    content='projects',
    content_rowid='id'
);

-- Triggers to keep FTS index synchronized
CREATE TRIGGER IF NOT EXISTS projects_ai AFTER INSERT ON projects BEGIN
    INSERT INTO projects_fts(rowid, name, description)
    VALUES (new.id, new.name, new.description);
END;

CREATE TRIGGER IF NOT EXISTS projects_ad AFTER DELETE ON projects BEGIN
    INSERT INTO projects_fts(projects_fts, rowid, name, description)
    VALUES('delete', old.id, old.name, old.description);
END;

CREATE TRIGGER IF NOT EXISTS projects_au AFTER UPDATE ON projects BEGIN
    INSERT INTO projects_fts(projects_fts, rowid, name, description)
    VALUES('delete', old.id, old.name, old.description);
    INSERT INTO projects_fts(rowid, name, description)
    VALUES (new.id, new.name, new.description);
END;
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

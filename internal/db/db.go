// Package db manages the SQLite database that holds collection snapshots for
// the sqlite storage backend.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
)

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			position   INTEGER NOT NULL,
			body       TEXT NOT NULL,
			PRIMARY KEY (collection, position)
		)`,
		`CREATE TABLE IF NOT EXISTS records_corrupt (
			collection TEXT NOT NULL,
			body       TEXT NOT NULL,
			PRIMARY KEY (collection, body)
		)`,
	}
	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

// Snapshot returns the encoded records of collection in saved order.
func (d *DB) Snapshot(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT body FROM records WHERE collection = ? ORDER BY position`, collection)
	if err != nil {
		return nil, fmt.Errorf("Snapshot %s: %w", collection, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("Snapshot %s scan: %w", collection, err)
		}
		out = append(out, []byte(body))
	}
	return out, rows.Err()
}

// ReplaceSnapshot overwrites collection with bodies inside one transaction.
func (d *DB) ReplaceSnapshot(ctx context.Context, collection string, bodies [][]byte) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceSnapshot %s: %w", collection, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("ReplaceSnapshot %s delete: %w", collection, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (collection, position, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ReplaceSnapshot %s prepare: %w", collection, err)
	}
	defer stmt.Close()
	for i, b := range bodies {
		if _, err = stmt.ExecContext(ctx, collection, i, string(b)); err != nil {
			return fmt.Errorf("ReplaceSnapshot %s insert: %w", collection, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceSnapshot %s commit: %w", collection, err)
	}
	return nil
}

// Quarantine moves the rows of collection whose body is in bodies to the
// records_corrupt table, where later snapshots neither read nor replace
// them. It returns how many rows of collection are held there in total.
func (d *DB) Quarantine(ctx context.Context, collection string, bodies [][]byte) (held int, err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("Quarantine %s: %w", collection, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, b := range bodies {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO records_corrupt (collection, body) VALUES (?, ?)`, collection, string(b)); err != nil {
			return 0, fmt.Errorf("Quarantine %s insert: %w", collection, err)
		}
		if _, err = tx.ExecContext(ctx,
			`DELETE FROM records WHERE collection = ? AND body = ?`, collection, string(b)); err != nil {
			return 0, fmt.Errorf("Quarantine %s delete: %w", collection, err)
		}
	}
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records_corrupt WHERE collection = ?`, collection).Scan(&held); err != nil {
		return 0, fmt.Errorf("Quarantine %s count: %w", collection, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("Quarantine %s commit: %w", collection, err)
	}
	return held, nil
}

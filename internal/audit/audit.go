// Package audit keeps an optional SQLite trail of keystore operations.
// Events carry the encoded identifier token and an outcome, never secret
// material, so the trail is safe to inspect and ship in diagnostics.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "modernc.org/sqlite" // SQLite driver
)

// Log wraps the SQLite handle for an audit database.
type Log struct {
	sql  *sql.DB
	path string
}

// Event is one recorded keystore operation.
type Event struct {
	ID        int64
	Op        string
	KeyToken  string
	Outcome   string
	Detail    string
	CreatedAt string
}

// Open initialises the audit database at path, creating the file and
// schema on first use.
func Open(path string) (*Log, error) {
	if path == "" {
		return nil, fmt.Errorf("audit database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)", path)
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}

	if err := ensurePerm0600(path); err != nil {
		handle.Close()
		return nil, err
	}

	if err := migrate(handle); err != nil {
		handle.Close()
		return nil, err
	}

	return &Log{sql: handle, path: path}, nil
}

// Close releases the database resources. Safe on a nil log.
func (l *Log) Close() error {
	if l == nil || l.sql == nil {
		return nil
	}
	return l.sql.Close()
}

// ensurePerm0600 restricts the audit file to its owner on Unix systems.
func ensurePerm0600(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, 0o600); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("chmod audit database: %w", err)
	}
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	op         TEXT     NOT NULL,
	key_token  TEXT     NOT NULL,
	outcome    TEXT     NOT NULL,
	detail     TEXT     NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_key_token ON events(key_token);
`

func migrate(handle *sql.DB) error {
	if _, err := handle.Exec(createEventsTable); err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

// Record appends one event. A nil log swallows the call so callers never
// branch on whether auditing is enabled.
func (l *Log) Record(op, keyToken, outcome, detail string) error {
	if l == nil || l.sql == nil {
		return nil
	}
	_, err := l.sql.Exec(
		`INSERT INTO events (op, key_token, outcome, detail) VALUES (?, ?, ?, ?)`,
		op, keyToken, outcome, detail,
	)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(limit int) ([]Event, error) {
	if l == nil || l.sql == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.sql.Query(
		`SELECT id, op, key_token, outcome, detail, created_at
		 FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Op, &ev.KeyToken, &ev.Outcome, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// Package state persists the registry's settings in SQLite: the set of
// folders with an open board and the quick-access toggle.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS active_folders (
	folder   TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const keyShowQuickAccess = "show_quick_access"

// Settings is the persisted registry state.
type Settings struct {
	// ActiveFolders lists folders with an open board, in opening order.
	ActiveFolders   []string `json:"active_folders"`
	ShowQuickAccess bool     `json:"show_quick_access"`
}

// Defaults returns the settings used when nothing has been stored yet.
func Defaults() Settings {
	return Settings{ActiveFolders: []string{}, ShowQuickAccess: true}
}

// Store wraps a sql.DB holding the settings tables.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Load reads the stored settings. Missing keys take their defaults and
// unknown keys are ignored.
func (s *Store) Load() (Settings, error) {
	out := Defaults()

	rows, err := s.conn.Query(`SELECT folder FROM active_folders ORDER BY position, folder`)
	if err != nil {
		return out, fmt.Errorf("state: load folders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var folder string
		if err := rows.Scan(&folder); err != nil {
			return out, fmt.Errorf("state: scan folder: %w", err)
		}
		out.ActiveFolders = append(out.ActiveFolders, folder)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("state: load folders: %w", err)
	}

	var raw string
	err = s.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, keyShowQuickAccess).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return out, fmt.Errorf("state: load settings: %w", err)
	default:
		if v, perr := strconv.ParseBool(raw); perr == nil {
			out.ShowQuickAccess = v
		}
	}
	return out, nil
}

// Save replaces the stored settings in one transaction. Duplicate folders
// keep their first position.
func (s *Store) Save(st Settings) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("state: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM active_folders`); err != nil {
		return fmt.Errorf("state: clear folders: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO active_folders (folder, position) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("state: prepare folder insert: %w", err)
	}
	defer stmt.Close()
	for i, folder := range st.ActiveFolders {
		if _, err := stmt.Exec(folder, i); err != nil {
			return fmt.Errorf("state: insert folder: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, keyShowQuickAccess, strconv.FormatBool(st.ShowQuickAccess))
	if err != nil {
		return fmt.Errorf("state: save settings: %w", err)
	}
	return tx.Commit()
}

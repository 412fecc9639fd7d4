// Package remind is the schedule reminder agent: it polls the training
// schedule and fires each enabled slot once per day, remembering fired
// slots in a local SQLite state database.
package remind

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB tracks which reminder slots have already fired so restarts
// never re-fire the same slot on the same day.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS fired_reminders (
		slot_key TEXT PRIMARY KEY,
		fired_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// WasFired checks whether the slot already fired.
func (s *StateDB) WasFired(slotKey string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM fired_reminders WHERE slot_key = ?`, slotKey,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkFired records that the slot fired.
func (s *StateDB) MarkFired(slotKey string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO fired_reminders (slot_key) VALUES (?)`, slotKey,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// Package notified persists the set of reminder ids already delivered
// by this client, so a reminder alerts at most once locally even when
// the backend still reports it as pending.
package notified

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS notified (
	reminder_id INTEGER PRIMARY KEY,
	notified_at TEXT NOT NULL
);
`

// Store is a durable set of delivered reminder ids. Membership only
// grows during a session; Clear is the single external reset path.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path. The parent
// directory is created if it doesn't exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Contains reports whether id has already been delivered.
func (s *Store) Contains(id int) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM notified WHERE reminder_id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add records id as delivered. Returns true if the id was newly
// inserted, false if it was already present.
func (s *Store) Add(id int) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO notified (reminder_id, notified_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IDs returns all delivered ids in ascending order.
func (s *Store) IDs() ([]int, error) {
	rows, err := s.db.Query(`SELECT reminder_id FROM notified ORDER BY reminder_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Clear removes every recorded id.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM notified`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

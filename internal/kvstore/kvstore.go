// Package kvstore implements the small embedded key-value store backing
// the "platform key-value store" referenced in spec 6: a single SQLite
// table of (key, value) rows, opened with the pure-Go modernc.org/sqlite
// driver so the SDK carries no CGo dependency. Two keys are used by this
// SDK: "audit_trail" and "user_patterns".
package kvstore

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is a tiny key-value table over a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite-backed store at dataDir/state.db.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dataDir, "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get reads the value for key. ok is false if the key is absent.
func (s *Store) Get(key string) (value []byte, ok bool, err error) {
	if s == nil {
		return nil, false, nil
	}
	row := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Put writes value for key, replacing any prior value.
func (s *Store) Put(key string, value []byte) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO kv(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

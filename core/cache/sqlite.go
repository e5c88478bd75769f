package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translations (
	key        TEXT PRIMARY KEY,
	source_rel TEXT NOT NULL,
	output     BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SQLite persists translations across runs.
type SQLite struct {
	db *sql.DB

	mu    sync.Mutex
	stats Stats
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply cache schema: %w", err)
	}

	return &SQLite{db: db, stats: Stats{Name: "sqlite"}}, nil
}

func (s *SQLite) Get(key string) ([]byte, bool) {
	var data []byte
	err := s.db.QueryRow(`SELECT output FROM translations WHERE key = ?`, key).Scan(&data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastUpdate = time.Now()
	if err != nil {
		// lookup errors are treated as misses; the translator is the fallback
		s.stats.Misses++
		return nil, false
	}
	s.stats.Hits++
	return data, true
}

func (s *SQLite) Put(key, sourceRel string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.Exec(
		`INSERT INTO translations (key, source_rel, output, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET source_rel = excluded.source_rel, output = excluded.output, created_at = excluded.created_at`,
		key, sourceRel, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store translation for %s: %w", sourceRel, err)
	}
	return nil
}

func (s *SQLite) Stats() *Stats {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&count); err != nil && !errors.Is(err, sql.ErrNoRows) {
		count = -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Entries = count
	st.CalculateHitRate()
	return &st
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

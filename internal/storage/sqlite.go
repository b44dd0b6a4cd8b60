// Package storage provides SQLite-based persistence for puzzle progress.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection. It holds a key-value table
// for per-level records and preferences, and an append-only table of
// completed puzzles.
type Store struct {
	db *sql.DB
}

// Completion is one solved puzzle in the history table.
type Completion struct {
	ID        string
	LevelID   int
	Score     int
	Stars     int
	Moves     int
	Seconds   int
	NewBest   bool
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			level_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			stars INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			seconds INTEGER NOT NULL,
			new_best INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_completions_level ON completions(level_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_completions_created ON completions(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value stored under key. The bool is false when the key
// is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores a single key.
func (s *Store) Put(key, value string) error {
	return s.PutBatch(map[string]string{key: value})
}

// PutBatch writes all entries in one transaction: either every key is
// stored or none is.
func (s *Store) PutBatch(entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot prepare write: %w", err)
	}
	defer stmt.Close()

	for key, value := range entries {
		if _, err := stmt.Exec(key, value); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: cannot write %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
			return fmt.Errorf("storage: cannot delete %q: %w", key, err)
		}
	}
	return nil
}

// SaveCompletion appends a solved puzzle to the history.
// Returns the generated ID.
func (s *Store) SaveCompletion(c Completion) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	newBest := 0
	if c.NewBest {
		newBest = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO completions (id, level_id, score, stars, moves, seconds, new_best)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.LevelID, c.Score, c.Stars, c.Moves, c.Seconds, newBest,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save completion: %w", err)
	}

	return c.ID, nil
}

// RecentCompletions returns the most recent completions across all levels.
func (s *Store) RecentCompletions(limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, score, stars, moves, seconds, new_best, created_at
		 FROM completions
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	return scanCompletions(rows)
}

// TopCompletions returns the best completions for one level, highest score first.
func (s *Store) TopCompletions(levelID, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, score, stars, moves, seconds, new_best, created_at
		 FROM completions
		 WHERE level_id = ?
		 ORDER BY score DESC, rowid ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	return scanCompletions(rows)
}

func scanCompletions(rows *sql.Rows) ([]Completion, error) {
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		var newBest int
		var createdAt any
		if err := rows.Scan(&c.ID, &c.LevelID, &c.Score, &c.Stars, &c.Moves, &c.Seconds, &newBest, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.NewBest = newBest != 0
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Package userdict persists the words a user adds at runtime in SQLite.
//
// The store is a single table keyed by the normalized word; adding a word
// twice keeps the first insertion time.
package userdict

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/trie"
	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultFile is the database file name used inside the data directory.
const DefaultFile = "userwords.db"

// Store implements dictionary.WordStore on a SQLite database.
// Safe for concurrent use: sql.DB pools its connections.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return open(path)
}

// OpenInMemory returns a store that lives as long as it stays open.
func OpenInMemory() (*Store, error) {
	return open(":memory:")
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Debugf("Opened user word store %s", path)
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS words (
			word TEXT PRIMARY KEY,
			added_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_words_added
		ON words(added_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Words returns every stored word in insertion order.
func (s *Store) Words() ([]string, error) {
	rows, err := s.db.Query(`SELECT word FROM words ORDER BY added_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// Add stores words in one transaction. Blank words are skipped and
// duplicates are ignored.
func (s *Store) Add(words ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO words (word, added_at) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for _, w := range words {
		w = trie.NormalizeWord(w)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, err := stmt.Exec(w, now); err != nil {
			return fmt.Errorf("failed to add %q: %w", w, err)
		}
	}
	return tx.Commit()
}

// Remove deletes words and reports how many were stored.
func (s *Store) Remove(words ...string) (int, error) {
	removed := 0
	for _, w := range words {
		res, err := s.db.Exec(`DELETE FROM words WHERE word = ?`, trie.NormalizeWord(w))
		if err != nil {
			return removed, fmt.Errorf("failed to remove %q: %w", w, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	return removed, nil
}

// Len returns the number of stored words.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return n, nil
}

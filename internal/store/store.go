// Package store persists local app state in SQLite: solution drafts, the
// login session, chat history, and model usage. Everything here works
// offline; syncing drafts to the platform is the api package's job.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DraftRepo returns a DraftRepo backed by this store.
func (s *Store) DraftRepo() *DraftRepo {
	return &DraftRepo{db: s.db}
}

// SessionRepo returns a SessionRepo backed by this store.
func (s *Store) SessionRepo() *SessionRepo {
	return &SessionRepo{db: s.db}
}

// ChatRepo returns a ChatRepo backed by this store.
func (s *Store) ChatRepo() *ChatRepo {
	return &ChatRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Tables are additive-only; new columns come
// with new CREATE statements guarded by IF NOT EXISTS.
func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	problem_id TEXT PRIMARY KEY,
	code       TEXT NOT NULL,
	language   TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	nickname     TEXT NOT NULL,
	expires_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	problem_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_problem ON chat_messages(problem_id, id);

CREATE TABLE IF NOT EXISTS llm_usage (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	created_at    TIMESTAMP NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CODETOYOU_DB environment variable
// 2. $XDG_DATA_HOME/codetoyou/codetoyou.db
// 3. ~/.local/share/codetoyou/codetoyou.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CODETOYOU_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "codetoyou", "codetoyou.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

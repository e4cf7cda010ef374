// Package journal keeps a local log of the admin actions issued from this
// machine. It never talks to the API; it only records what was attempted
// and whether the API accepted it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"coinfixi/internal/logging"
)

// Entry is one recorded action.
type Entry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Note       string    `json:"note,omitempty"`
	Operator   string    `json:"operator,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is a SQLite-backed journal.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens or creates the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Get(logging.CategoryJournal).Debugw("journal opened", "path", path)
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS actions (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		resource TEXT NOT NULL,
		resource_id TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		operator TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_actions_created ON actions(created_at);
	CREATE INDEX IF NOT EXISTS idx_actions_resource ON actions(resource, resource_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Append stores e, filling in ID and CreatedAt when empty.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actions (id, action, resource, resource_id, note, operator, success, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.Resource, e.ResourceID, e.Note, e.Operator, e.Success, e.Error, e.CreatedAt.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to append journal entry: %w", err)
	}
	return e, nil
}

// Track runs fn and records its outcome. fn's error is returned unchanged;
// a failure to write the journal is only logged.
func (s *Store) Track(ctx context.Context, e Entry, fn func() error) error {
	err := fn()
	e.Success = err == nil
	if err != nil {
		e.Error = err.Error()
	}
	if _, jerr := s.Append(ctx, e); jerr != nil {
		logging.Get(logging.CategoryJournal).Warnw("journal write failed", "action", e.Action, "error", jerr)
	}
	return err
}

// ListOptions narrows List.
type ListOptions struct {
	Resource string
	Since    time.Time
	Limit    int
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `SELECT id, action, resource, resource_id, note, operator, success, error, created_at
		FROM actions WHERE 1=1`
	var args []any
	if opts.Resource != "" {
		query += ` AND resource = ?`
		args = append(args, opts.Resource)
	}
	if !opts.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, opts.Since.UTC().UnixNano())
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.ID, &e.Action, &e.Resource, &e.ResourceID, &e.Note, &e.Operator, &e.Success, &e.Error, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     history
// Description: SQLite-backed store of past parses
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded parse
type Entry struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Document   json.RawMessage `json:"document"`
	ErrorCount int             `json:"error_count"`
	Errors     []string        `json:"errors"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OK reports whether the recorded parse had no errors
func (e *Entry) OK() bool {
	return e.ErrorCount == 0
}

// NewEntry builds an entry from a parse result
func NewEntry(result *lang.Result) (*Entry, error) {
	doc, err := json.Marshal(result.Document())
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to encode document").WithCode(mdwerror.CodeInternal)
	}
	return &Entry{
		Source:     result.Source,
		Document:   doc,
		ErrorCount: len(result.Diagnostics),
		Errors:     result.Errors(),
	}, nil
}

// Filter narrows List results
type Filter struct {
	Limit      int
	Offset     int
	OnlyFailed bool
}

// Config holds configuration for the store
type Config struct {
	Path string

	// MaxEntries keeps only the newest entries after each Record. Zero
	// disables pruning.
	MaxEntries int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:       "./data/history.db",
		MaxEntries: 1000,
	}
}

// Store persists parses in SQLite
type Store struct {
	db         *sql.DB
	mu         sync.RWMutex
	maxEntries int
}

// Open opens or creates the store at cfg.Path
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("history path is required").WithCode(mdwerror.CodeInvalidConfig)
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, storageError(err, "failed to create directory")
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storageError(err, "failed to open database")
	}
	if cfg.Path == ":memory:" {
		// every connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, maxEntries: cfg.MaxEntries}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema")
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parses (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		document TEXT NOT NULL,
		error_count INTEGER NOT NULL DEFAULT 0,
		errors TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_parses_created ON parses(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_parses_failed ON parses(error_count);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an entry, assigning its ID and timestamp when unset
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Errors == nil {
		entry.Errors = []string{}
	}
	if len(entry.Document) == 0 {
		entry.Document = json.RawMessage("null")
	}

	errorsJSON, err := json.Marshal(entry.Errors)
	if err != nil {
		return mdwerror.Wrap(err, "failed to encode errors").WithCode(mdwerror.CodeInternal)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO parses (id, source, document, error_count, errors, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Source, string(entry.Document), entry.ErrorCount, string(errorsJSON), entry.CreatedAt)
	if err != nil {
		return storageError(err, "failed to record parse")
	}

	if s.maxEntries > 0 {
		if _, err := s.prune(ctx, s.maxEntries); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an entry by ID
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, document, error_count, errors, created_at
		FROM parses WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdwerror.Newf("parse %s not found", id).
			WithCode(mdwerror.CodeNotFound).
			WithDetail("id", id)
	}
	if err != nil {
		return nil, storageError(err, "failed to get parse")
	}
	return entry, nil
}

// List returns entries newest first
func (s *Store) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, source, document, error_count, errors, created_at
		FROM parses`
	if filter.OnlyFailed {
		query += ` WHERE error_count > 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, storageError(err, "failed to list parses")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, storageError(err, "failed to scan parse")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to list parses")
	}

	return entries, nil
}

// Delete removes an entry
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM parses WHERE id = ?`, id)
	if err != nil {
		return storageError(err, "failed to delete parse")
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		return mdwerror.Newf("parse %s not found", id).
			WithCode(mdwerror.CodeNotFound).
			WithDetail("id", id)
	}
	return nil
}

// Prune keeps the newest keep entries and returns how many were removed
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prune(ctx, keep)
}

func (s *Store) prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM parses WHERE id NOT IN (
			SELECT id FROM parses ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, storageError(err, "failed to prune history")
	}

	removed, _ := result.RowsAffected()
	return removed, nil
}

// Count returns the number of entries
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parses`).Scan(&n); err != nil {
		return 0, storageError(err, "failed to count parses")
	}
	return n, nil
}

// Statistics returns store statistics
func (s *Store) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total, failed int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN error_count > 0 THEN 1 ELSE 0 END), 0)
		FROM parses
	`).Scan(&total, &failed)
	if err != nil {
		return nil, storageError(err, "failed to read statistics")
	}

	stats := map[string]interface{}{
		"total_parses":  total,
		"failed_parses": failed,
	}
	if total > 0 {
		stats["failure_rate"] = float64(failed) / float64(total)
	}
	return stats, nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err, "history database unreachable")
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var document, errorsJSON string

	if err := row.Scan(&entry.ID, &entry.Source, &document, &entry.ErrorCount, &errorsJSON, &entry.CreatedAt); err != nil {
		return nil, err
	}

	entry.Document = json.RawMessage(document)
	if err := json.Unmarshal([]byte(errorsJSON), &entry.Errors); err != nil {
		return nil, err
	}
	return &entry, nil
}

func storageError(err error, message string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).WithCode(mdwerror.CodeStorageError)
}

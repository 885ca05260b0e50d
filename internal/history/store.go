// Package history persists delivered payloads so the preview line and
// troubleshooting survive restarts. The store is optional; when the
// config leaves it off the app runs with a nil *Store and every method
// no-ops.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("history store closed")

// tokenSeparator joins payload tokens for storage. ASCII Unit
// Separator never appears in key tokens.
const tokenSeparator = "\x1f"

// Record is one delivered payload.
type Record struct {
	ID        string
	Target    string
	Tokens    []string
	Modifiers string
	SentAt    time.Time
}

// Store writes delivery records to SQLite.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS deliveries (
	delivery_id TEXT PRIMARY KEY,
	target TEXT NOT NULL,
	tokens TEXT NOT NULL,
	modifiers TEXT NOT NULL DEFAULT '',
	sent_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_sent_at ON deliveries(sent_at);
`)
	if err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

// Close releases the database. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Append records one delivery. Safe on a nil store.
func (s *Store) Append(ctx context.Context, target string, tokens []string, modifiers string) error {
	if s == nil {
		return nil
	}
	if s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO deliveries(delivery_id, target, tokens, modifiers, sent_at)
VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(),
		target,
		strings.Join(tokens, tokenSeparator),
		modifiers,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("append delivery: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Safe on a nil
// store, which returns nothing.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT delivery_id, target, tokens, modifiers, sent_at
FROM deliveries ORDER BY sent_at DESC, delivery_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var tokens string
		var sentAt int64
		if err := rows.Scan(&rec.ID, &rec.Target, &tokens, &rec.Modifiers, &sentAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		if tokens != "" {
			rec.Tokens = strings.Split(tokens, tokenSeparator)
		}
		rec.SentAt = time.UnixMilli(sentAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes records older than the cutoff. Safe on a nil store.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) error {
	if s == nil {
		return nil
	}
	if s.db == nil {
		return ErrClosed
	}
	cutoff := time.Now().UTC().Add(-olderThan).UnixMilli()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM deliveries WHERE sent_at < ?`, cutoff); err != nil {
		return fmt.Errorf("prune deliveries: %w", err)
	}
	return nil
}

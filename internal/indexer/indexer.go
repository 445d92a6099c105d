// Package indexer persists PageRecords to a durable SQLite-backed store
// with atomic upsert-by-URL semantics.
package indexer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by Index after Close has been called.
var ErrClosed = errors.New("indexer: closed")

const maxPreviewRunes = 500

// Record is the content persisted for a single page.
type Record struct {
	URL      string
	Title    string
	Keywords []string
	Text     string
}

// Indexer is a crawl-safe SQLite sink. Calls are serialized internally
// to match SQLite's single-writer discipline, mirroring the teacher
// corpus's db.SetMaxOpenConns(1) pattern.
type Indexer struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open creates (if needed) the database at dbPath, bootstraps the
// schema, and returns a ready Indexer.
func Open(ctx context.Context, dbPath string) (*Indexer, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping schema: %w", err)
	}

	return &Indexer{db: db}, nil
}

// Index upserts rec by URL: inserting it with both timestamps set to
// now if absent, or refreshing title/keywords/text_preview/updated_at
// while preserving the original crawled_at if present. Retries once
// after 1 second on a transient failure.
func (ix *Indexer) Index(ctx context.Context, rec Record) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return ErrClosed
	}

	err := ix.upsert(ctx, rec)
	if err == nil {
		return nil
	}

	timer := time.NewTimer(1 * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return ix.upsert(ctx, rec)
}

func (ix *Indexer) upsert(ctx context.Context, rec Record) error {
	keywordsJSON, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("marshaling keywords: %w", err)
	}

	preview := truncatePreview(rec.Text, maxPreviewRunes)
	now := time.Now().UTC()

	_, err = ix.db.ExecContext(ctx, `
		INSERT INTO pages (url, title, keywords, text_preview, crawled_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title        = excluded.title,
			keywords     = excluded.keywords,
			text_preview = excluded.text_preview,
			updated_at   = excluded.updated_at
	`, rec.URL, rec.Title, string(keywordsJSON), preview, now, now)
	if err != nil {
		return fmt.Errorf("upserting page: %w", err)
	}
	return nil
}

// truncatePreview returns the first n runes of s.
func truncatePreview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Close releases the underlying database handle. After Close, Index
// fails fast with ErrClosed.
func (ix *Indexer) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return nil
	}
	ix.closed = true
	return ix.db.Close()
}

// Package cache keeps recognized page text in a local sqlite database so that
// repeated runs over the same scans skip optical recognition.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const DefaultName = "career-checker-cache.db"

const schema = `
CREATE TABLE IF NOT EXISTS page_text (
	key        TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

type PageCache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path.
func Open(path string) (*PageCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &PageCache{db: db, path: path}, nil
}

func (c *PageCache) Get(ctx context.Context, key string) (string, bool, error) {
	var text string
	err := c.db.QueryRowContext(ctx, "SELECT text FROM page_text WHERE key = ?", key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query page cache: %w", err)
	}
	return text, true, nil
}

func (c *PageCache) Put(ctx context.Context, key, text string) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT INTO page_text (key, text, created_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET text = excluded.text, created_at = excluded.created_at",
		key, text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store page cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *PageCache) Path() string {
	return c.path
}

func (c *PageCache) Close() error {
	return c.db.Close()
}

// Package store provides a SQLite-backed persistent translation cache. It
// sits behind the in-memory LRU and lets translations survive restarts.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache is the persistent translation store.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the translation database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the stored translation for key and bumps its last-used time.
func (c *Cache) Get(key string) (string, bool, error) {
	var translated string
	err := c.db.QueryRow("SELECT translated FROM translations WHERE key = ?", key).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, _ = c.db.Exec("UPDATE translations SET last_used = ? WHERE key = ?", now, key)
	return translated, true, nil
}

// Put stores or replaces the translation for key.
func (c *Cache) Put(key, translated string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.Exec(`INSERT OR REPLACE INTO translations (key, translated, created_at, last_used)
		VALUES (?, ?, ?, ?)`, key, translated, now, now)
	return err
}

// Count returns the number of stored translations.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM translations").Scan(&count)
	return count, err
}

// Prune deletes entries not used since the cutoff and returns how many were
// removed.
func (c *Cache) Prune(cutoff time.Time) (int64, error) {
	res, err := c.db.Exec("DELETE FROM translations WHERE last_used < ?",
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "loglingo")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "loglingo")
}

// CachePath returns the full path to the translation database.
func CachePath() string {
	return filepath.Join(CacheDir(), "translations.db")
}

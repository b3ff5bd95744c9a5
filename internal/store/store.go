// Package store persists the per-category feed cache in a local SQLite
// database. Entries are time-boxed; a fresh entry is served verbatim and never
// merged with newer partial data.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tahofeed/internal/core"
)

// DefaultTTL bounds how long a cache entry stays valid.
const DefaultTTL = 15 * time.Minute

// Entry is one cached result set for a category.
type Entry struct {
	Articles []core.Article
	CachedAt time.Time
}

// Store is the SQLite-backed feed cache. The clock is injectable so freshness
// checks are deterministic under test.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for stamping and freshness.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New opens (creating if needed) the cache database under dataDir.
func New(dataDir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, "tahofeed.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feed_cache (
		category TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		cached_at DATETIME NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create feed_cache table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached entry for a category, fresh or not. The second
// return reports presence; freshness is the caller's call via IsFresh.
func (s *Store) Get(category core.Category) (Entry, bool, error) {
	var (
		payload  string
		cachedAt time.Time
	)
	err := s.db.QueryRow(
		`SELECT payload, cached_at FROM feed_cache WHERE category = ?`,
		string(category),
	).Scan(&payload, &cachedAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var articles []core.Article
	if err := json.Unmarshal([]byte(payload), &articles); err != nil {
		return Entry{}, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return Entry{Articles: articles, CachedAt: cachedAt}, true, nil
}

// Put stores the article list for a category, stamped with the current time.
func (s *Store) Put(category core.Category, articles []core.Article) error {
	payload, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO feed_cache (category, payload, cached_at) VALUES (?, ?, ?)`,
		string(category), string(payload), s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// IsFresh reports whether an entry is still inside the freshness window.
func (s *Store) IsFresh(e Entry) bool {
	return s.now().Sub(e.CachedAt) < s.ttl
}

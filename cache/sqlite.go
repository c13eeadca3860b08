package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

const createTranslationsTable = `
CREATE TABLE IF NOT EXISTS translations (
	key TEXT PRIMARY KEY,
	source_preview TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	model TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	last_used_at INTEGER NOT NULL
);
`

// SQLiteStore is a durable Store backed by a SQLite database, for callers
// that want the cache to survive restarts. Recency is tracked in a
// last_used_at column; eviction removes the least recently used rows.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
	ttl        time.Duration

	mu      sync.Mutex
	enabled bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Non-positive maxEntries or ttl fall back to the package defaults.
func NewSQLiteStore(dbPath string, maxEntries int, ttl time.Duration) (*SQLiteStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(createTranslationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLiteStore{db: db, maxEntries: maxEntries, ttl: ttl, enabled: true}, nil
}

// Lookup returns the entry for (text, model), refreshing its recency.
// Database errors are reported as misses.
func (s *SQLiteStore) Lookup(text, model string) (*Entry, bool) {
	if !s.Enabled() {
		return nil, false
	}

	key := Key(text, model)
	var entry Entry
	var createdAt int64
	err := s.db.QueryRow(
		`SELECT source_preview, translated_text, model, created_at FROM translations WHERE key = ?`,
		key,
	).Scan(&entry.SourcePreview, &entry.TranslatedText, &entry.Model, &createdAt)
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}

	entry.Key = key
	entry.CreatedAt = time.Unix(createdAt, 0)
	if time.Since(entry.CreatedAt) > s.ttl {
		_, _ = s.db.Exec(`DELETE FROM translations WHERE key = ?`, key)
		s.misses.Add(1)
		return nil, false
	}

	_, _ = s.db.Exec(`UPDATE translations SET last_used_at = ? WHERE key = ?`, time.Now().Unix(), key)
	s.hits.Add(1)
	return &entry, true
}

// Insert writes or overwrites the entry, then evicts least-recently-used
// rows beyond the bound.
func (s *SQLiteStore) Insert(text, model, translatedText string) error {
	if !s.Enabled() {
		return nil
	}

	key := Key(text, model)
	now := time.Now().Unix()
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO translations (key, source_preview, translated_text, model, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key, SafePreview(text), translatedText, model, now, now,
	)
	if err != nil {
		return fmt.Errorf("cache insert: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM translations WHERE key NOT IN (
			SELECT key FROM translations ORDER BY last_used_at DESC, created_at DESC LIMIT ?
		)`,
		s.maxEntries,
	)
	if err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	return nil
}

// Clear removes all rows.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM translations`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// SetEnabled toggles the store without touching stored rows.
func (s *SQLiteStore) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether the store is active.
func (s *SQLiteStore) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Len returns the number of stored rows.
func (s *SQLiteStore) Len() int {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&count); err != nil {
		return 0
	}
	return count
}

// Stats returns hit/miss counters and the current row count.
func (s *SQLiteStore) Stats() Stats {
	return Stats{Entries: s.Len(), Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Verify SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

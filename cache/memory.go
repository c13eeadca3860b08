package cache

import (
	"container/list"
	"sync"
	"time"
)

// Defaults matching the shipped application behavior.
const (
	DefaultMaxEntries = 100
	DefaultTTL        = 30 * 24 * time.Hour
)

// MemoryStore is a thread-safe in-memory store with LRU eviction and
// time-based expiry. Entries are kept in recency order: a lookup hit moves
// the entry to the front, inserts evict from the back once the entry bound
// is exceeded.
type MemoryStore struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	order      *list.List               // front = most recently used
	index      map[string]*list.Element // key -> element holding *Entry
	enabled    bool
	hits       int64
	misses     int64
}

// NewMemoryStore creates a store bounded at maxEntries with the given TTL.
// Non-positive maxEntries or ttl fall back to the defaults. The store starts
// enabled.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		index:      make(map[string]*list.Element),
		enabled:    true,
	}
}

// Lookup returns the entry for (text, model) and refreshes its recency.
// Expired entries are purged and reported as misses. A disabled store
// always misses.
func (s *MemoryStore) Lookup(text, model string) (*Entry, bool) {
	key := Key(text, model)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return nil, false
	}

	elem, ok := s.index[key]
	if !ok {
		s.misses++
		return nil, false
	}

	entry := elem.Value.(*Entry)
	if time.Since(entry.CreatedAt) > s.ttl {
		s.order.Remove(elem)
		delete(s.index, key)
		s.misses++
		return nil, false
	}

	s.order.MoveToFront(elem)
	s.hits++

	copied := *entry
	return &copied, true
}

// Insert writes or overwrites the entry for (text, model) and evicts the
// least-recently-used entries until the bound holds. A disabled store
// ignores the call. Never fails.
func (s *MemoryStore) Insert(text, model, translatedText string) error {
	key := Key(text, model)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return nil
	}

	entry := &Entry{
		Key:            key,
		SourcePreview:  SafePreview(text),
		TranslatedText: translatedText,
		Model:          model,
		CreatedAt:      time.Now(),
	}

	if elem, ok := s.index[key]; ok {
		elem.Value = entry
		s.order.MoveToFront(elem)
	} else {
		s.index[key] = s.order.PushFront(entry)
	}

	for s.order.Len() > s.maxEntries {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.index, oldest.Value.(*Entry).Key)
	}
	return nil
}

// Clear empties the store. Counters are preserved.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.Init()
	s.index = make(map[string]*list.Element)
	return nil
}

// SetEnabled toggles the store without touching stored entries.
func (s *MemoryStore) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether the store is active.
func (s *MemoryStore) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Len returns the number of stored entries, including expired ones not yet
// purged.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Stats returns hit/miss counters and the current entry count.
func (s *MemoryStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Entries: s.order.Len(), Hits: s.hits, Misses: s.misses}
}

// Entries returns the non-expired entries in recency order, most recent
// first. Used for cache export.
func (s *MemoryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, s.order.Len())
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*Entry)
		if time.Since(entry.CreatedAt) > s.ttl {
			continue
		}
		out = append(out, *entry)
	}
	return out
}

// Restore loads previously exported entries, preserving their timestamps,
// and returns how many were written (overwrites of existing keys included).
// Expired entries are skipped; the entry bound is enforced afterwards.
func (s *MemoryStore) Restore(entries []Entry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	// Walk newest-last so recency order survives the round trip.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if time.Since(entry.CreatedAt) > s.ttl {
			continue
		}
		loaded++
		copied := entry
		if elem, ok := s.index[entry.Key]; ok {
			elem.Value = &copied
			s.order.MoveToFront(elem)
		} else {
			s.index[entry.Key] = s.order.PushFront(&copied)
		}
	}

	for s.order.Len() > s.maxEntries {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.index, oldest.Value.(*Entry).Key)
	}
	return loaded
}

// Verify MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// Package cache provides content-addressed translation result stores.
package cache

import "time"

// Entry is one cached translation. Entries are immutable once written; a
// repeated identical request overwrites rather than appends.
type Entry struct {
	// Key is the content-addressed cache key, see Key.
	Key string `json:"key"`
	// SourcePreview is a truncated, masked preview of the source text. It
	// never contains the full source and never contains unmasked emails,
	// URLs, or long digit runs.
	SourcePreview  string    `json:"source_preview"`
	TranslatedText string    `json:"translated_text"`
	Model          string    `json:"model"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Store is the interface for translation caches. Stores never surface
// errors to the translation path: a failed lookup is a miss, a failed
// insert is a no-op (backends return the error for logging only).
type Store interface {
	// Lookup returns the entry for (text, model), or nil and false when
	// absent, expired, or the store is disabled. A hit refreshes the
	// entry's recency.
	Lookup(text, model string) (*Entry, bool)

	// Insert writes or overwrites the entry for (text, model), masking a
	// preview of text, then enforces the store's entry bound. Disabled
	// stores ignore the call.
	Insert(text, model, translatedText string) error

	// Clear empties the store.
	Clear() error

	// SetEnabled toggles the store. Disabling preserves existing entries
	// so re-enabling restores the prior cache state.
	SetEnabled(enabled bool)

	// Enabled reports whether the store is active.
	Enabled() bool

	// Len returns the number of stored entries, including any not yet
	// lazily purged.
	Len() int

	// Stats returns hit/miss counters and the current entry count.
	Stats() Stats
}

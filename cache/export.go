package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportFormat is the JSON structure used to persist a cache snapshot to
// disk. The on-disk representation is a collaborator concern; this format is
// what the shipped application writes.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []Entry           `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Export writes a snapshot of the store to w. Entries are ordered most
// recently used first so a later Restore reproduces the recency order.
func Export(s *MemoryStore, w io.Writer, metadata map[string]string) error {
	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    s.Entries(),
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ExportToFile writes a snapshot to the given path.
// The path is provided by the caller and is intentionally user-controlled.
func ExportToFile(s *MemoryStore, path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer f.Close()

	return Export(s, f, metadata)
}

// Import loads a snapshot from r into the store. Expired entries are
// dropped; the store's entry bound still applies.
func Import(s *MemoryStore, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	loaded := s.Restore(export.Entries)

	return &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
		Loaded:   loaded,
		Skipped:  len(export.Entries) - loaded,
	}, nil
}

// ImportFromFile loads a snapshot from the given path.
// The path is provided by the caller and is intentionally user-controlled.
func ImportFromFile(s *MemoryStore, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return Import(s, f)
}

// ImportResult reports what a snapshot import did. Loaded counts entries
// written into the store, overwrites of existing keys included; Skipped
// counts snapshot entries dropped as expired. The store's entry bound may
// still evict loaded entries afterwards.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Loaded   int
	Skipped  int
}

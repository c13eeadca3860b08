package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaguanLabs/lingotray"
	"github.com/ZaguanLabs/lingotray/cache"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Provider != "anthropic" {
		t.Errorf("provider = %q", s.Provider)
	}
	if s.Model != lingotray.DefaultModel {
		t.Errorf("model = %q", s.Model)
	}
	if !s.Cache.Enabled {
		t.Error("cache should default to enabled")
	}
	if s.Cache.Backend != "memory" {
		t.Errorf("cache backend = %q", s.Cache.Backend)
	}
	if s.Cache.MaxEntries != cache.DefaultMaxEntries {
		t.Errorf("cache max entries = %d", s.Cache.MaxEntries)
	}
	if s.Timeout != lingotray.DefaultRequestTimeout {
		t.Errorf("timeout = %v", s.Timeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lingotray.yaml")
	content := `
provider: openai
model: gpt-4o
timeout: 30s
cache:
  enabled: false
  backend: sqlite
  max_entries: 50
  ttl: 24h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Provider != "openai" {
		t.Errorf("provider = %q", s.Provider)
	}
	if s.Model != "gpt-4o" {
		t.Errorf("model = %q", s.Model)
	}
	if s.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", s.Timeout)
	}
	if s.Cache.Enabled {
		t.Error("cache should be disabled")
	}
	if s.Cache.Backend != "sqlite" {
		t.Errorf("backend = %q", s.Cache.Backend)
	}
	if s.Cache.MaxEntries != 50 {
		t.Errorf("max entries = %d", s.Cache.MaxEntries)
	}
	if s.Cache.TTL != 24*time.Hour {
		t.Errorf("ttl = %v", s.Cache.TTL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LINGOTRAY_MODEL", "claude-sonnet-4-5")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Model != "claude-sonnet-4-5" {
		t.Errorf("model = %q", s.Model)
	}
	if s.AnthropicAPIKey != "env-key" {
		t.Errorf("anthropic key = %q", s.AnthropicAPIKey)
	}
	if s.APIKey() != "env-key" {
		t.Errorf("APIKey() = %q", s.APIKey())
	}
}

func TestNewStoreBackends(t *testing.T) {
	s := &Settings{Cache: CacheSettings{Backend: "memory", MaxEntries: 10, TTL: time.Hour}}
	store, err := s.NewStore()
	if err != nil {
		t.Fatalf("NewStore(memory): %v", err)
	}
	if _, ok := store.(*cache.MemoryStore); !ok {
		t.Errorf("store type = %T", store)
	}

	s.Cache.Backend = "sqlite"
	s.Cache.Path = filepath.Join(t.TempDir(), "cache.db")
	store, err = s.NewStore()
	if err != nil {
		t.Fatalf("NewStore(sqlite): %v", err)
	}
	sq, ok := store.(*cache.SQLiteStore)
	if !ok {
		t.Fatalf("store type = %T", store)
	}
	sq.Close()
}

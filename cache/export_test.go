package cache

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := NewMemoryStore(10, time.Hour)
	src.Insert("oldest", "m", "t1")
	src.Insert("middle", "m", "t2")
	src.Insert("newest", "m", "t3")

	var buf bytes.Buffer
	if err := Export(src, &buf, map[string]string{"host": "laptop"}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := NewMemoryStore(10, time.Hour)
	result, err := Import(dst, &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if result.Loaded != 3 || result.Skipped != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Version != "1.0" {
		t.Errorf("version = %q", result.Version)
	}
	if result.Metadata["host"] != "laptop" {
		t.Errorf("metadata = %v", result.Metadata)
	}

	for _, text := range []string{"oldest", "middle", "newest"} {
		if _, ok := dst.Lookup(text, "m"); !ok {
			t.Errorf("entry %q lost in round trip", text)
		}
	}

	// Recency order survives: with a bound of 1 only the newest remains.
	small := NewMemoryStore(1, time.Hour)
	var buf2 bytes.Buffer
	Export(src, &buf2, nil)
	Import(small, &buf2)
	if _, ok := small.Lookup("newest", "m"); !ok {
		t.Error("bounded import should keep the most recent entry")
	}
}

func TestExportFormatShape(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	s.Insert("hello", "m", "t")

	var buf bytes.Buffer
	if err := Export(s, &buf, nil); err != nil {
		t.Fatal(err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if export.Version != "1.0" {
		t.Errorf("version = %q", export.Version)
	}
	if export.ExportedAt == "" {
		t.Error("exported_at missing")
	}
	if len(export.Entries) != 1 {
		t.Fatalf("entries = %d", len(export.Entries))
	}
	if export.Entries[0].Key != Key("hello", "m") {
		t.Errorf("entry key = %q", export.Entries[0].Key)
	}
}

func TestImportSkipsExpired(t *testing.T) {
	export := ExportFormat{
		Version: "1.0",
		Entries: []Entry{
			{Key: Key("fresh", "m"), TranslatedText: "a", Model: "m", CreatedAt: time.Now()},
			{Key: Key("stale", "m"), TranslatedText: "b", Model: "m", CreatedAt: time.Now().Add(-2 * time.Hour)},
		},
	}
	data, _ := json.Marshal(export)

	dst := NewMemoryStore(10, time.Hour)
	result, err := Import(dst, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if result.Loaded != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	if _, ok := dst.Lookup("fresh", "m"); !ok {
		t.Error("fresh entry missing")
	}
	if _, ok := dst.Lookup("stale", "m"); ok {
		t.Error("stale entry should have been skipped")
	}
}

func TestImportCountsOverwrites(t *testing.T) {
	export := ExportFormat{
		Version: "1.0",
		Entries: []Entry{
			{Key: Key("hello", "m"), TranslatedText: "snapshot", Model: "m", CreatedAt: time.Now()},
			{Key: Key("other", "m"), TranslatedText: "new", Model: "m", CreatedAt: time.Now()},
		},
	}
	data, _ := json.Marshal(export)

	dst := NewMemoryStore(10, time.Hour)
	dst.Insert("hello", "m", "local")

	result, err := Import(dst, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	// The overwrite of "hello" is a load, not a skip.
	if result.Loaded != 2 || result.Skipped != 0 {
		t.Errorf("result = %+v", result)
	}
	entry, ok := dst.Lookup("hello", "m")
	if !ok || entry.TranslatedText != "snapshot" {
		t.Errorf("entry = %+v, want snapshot value", entry)
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	dst := NewMemoryStore(10, time.Hour)
	if _, err := Import(dst, strings.NewReader("{broken")); err == nil {
		t.Error("expected decode error")
	}
}

func TestExportImportFile(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	s.Insert("hello", "m", "t")

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := ExportToFile(s, path, nil); err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}

	dst := NewMemoryStore(10, time.Hour)
	result, err := ImportFromFile(dst, path)
	if err != nil {
		t.Fatalf("ImportFromFile: %v", err)
	}
	if result.Loaded != 1 {
		t.Errorf("loaded = %d", result.Loaded)
	}
}

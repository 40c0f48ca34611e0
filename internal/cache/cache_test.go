package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/lockscore/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("acme", "text")
	if !strings.HasPrefix(a, "lockscore:v1:") {
		t.Errorf("missing prefix: %s", a)
	}
	if a != Key("acme", "text") {
		t.Error("Key must be deterministic")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("part boundaries must affect the key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	value := []byte("assessment")
	if err := c.Set("k", value, 0); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, ok := c.Get("k")
	if !ok || string(got) != "assessment" {
		t.Errorf("Get() = %q, %v; stored value must be a copy", got, ok)
	}

	got[0] = 'Y'
	again, _ := c.Get("k")
	if string(again) != "assessment" {
		t.Error("returned value must be a copy")
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := Key("acme")
	if err := c.Set(key, []byte(`{"total_score":15}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	hash := strings.TrimPrefix(key, "lockscore:v1:")
	if _, err := os.Stat(filepath.Join(dir, hash[:2], hash+".json")); err != nil {
		t.Errorf("expected sharded file: %v", err)
	}

	got, ok := c.Get(key)
	if !ok || string(got) != `{"total_score":15}` {
		t.Errorf("Get() = %q, %v", got, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get(key); ok {
		t.Error("expected expired entry to miss")
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("deleting a removed entry should not fail: %v", err)
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("corrupt")

	path := c.path(key)
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("not json"), 0o644)

	if _, ok := c.Get(key); ok {
		t.Error("corrupt entry must miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	// Written by a previous process: disk only
	if err := NewDiskCache(dir, time.Hour).Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}
	if _, ok := c.memory.Get("k"); !ok {
		t.Error("disk hit should be promoted to memory")
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after clear")
	}
}

func TestNew(t *testing.T) {
	if New(model.CacheConfig{Enabled: false}) != nil {
		t.Error("disabled config must yield nil cache")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("no disk dir should yield a memory cache")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, DiskDir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("disk dir should yield a layered cache")
	}
}

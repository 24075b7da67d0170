package translate

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mapStore is an in-memory Store for tests.
type mapStore struct {
	m    map[string]string
	err  error
	puts int
}

func (s *mapStore) Get(key string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *mapStore) Put(key, value string) error {
	if s.err != nil {
		return s.err
	}
	s.puts++
	s.m[key] = value
	return nil
}

func TestCacheGetPut(t *testing.T) {
	c, err := NewCache(CacheConfig{Size: 8, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("hello", "echo", "zh"); ok {
		t.Fatal("hit on empty cache")
	}

	c.Put("hello", "echo", "zh", "你好")
	if v, ok := c.Get("hello", "echo", "zh"); !ok || v != "你好" {
		t.Errorf("Get = %q, %v", v, ok)
	}

	// Engine and target are part of the key.
	if _, ok := c.Get("hello", "other", "zh"); ok {
		t.Error("hit across engines")
	}
	if _, ok := c.Get("hello", "echo", "ja"); ok {
		t.Error("hit across targets")
	}

	// Text is normalized by trimming.
	if v, ok := c.Get("  hello  ", "echo", "zh"); !ok || v != "你好" {
		t.Errorf("trimmed Get = %q, %v", v, ok)
	}
}

func TestCacheEviction(t *testing.T) {
	c, err := NewCache(CacheConfig{Size: 2, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	c.Put("one", "echo", "zh", "1")
	c.Put("two", "echo", "zh", "2")
	c.Put("three", "echo", "zh", "3")

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("one", "echo", "zh"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get("three", "echo", "zh"); !ok {
		t.Error("newest entry evicted")
	}
}

func TestCacheStoreFallthrough(t *testing.T) {
	store := &mapStore{m: map[string]string{
		Key("hello", "echo", "zh"): "你好",
	}}
	c, err := NewCache(CacheConfig{Size: 8, Store: store, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	// Memory miss falls through to the store and promotes the entry.
	if v, ok := c.Get("hello", "echo", "zh"); !ok || v != "你好" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	store.err = errors.New("db closed")
	if v, ok := c.Get("hello", "echo", "zh"); !ok || v != "你好" {
		t.Errorf("promoted entry not served from memory: %q, %v", v, ok)
	}
}

func TestCacheStoreErrorsAreMisses(t *testing.T) {
	store := &mapStore{m: map[string]string{}, err: errors.New("db closed")}
	c, err := NewCache(CacheConfig{Size: 8, Store: store, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("hello", "echo", "zh"); ok {
		t.Error("store error surfaced as a hit")
	}
	// Put still lands in memory despite the failing store.
	c.Put("hello", "echo", "zh", "你好")
	if v, ok := c.Get("hello", "echo", "zh"); !ok || v != "你好" {
		t.Errorf("Get after Put = %q, %v", v, ok)
	}
}

func TestCacheWritesThrough(t *testing.T) {
	store := &mapStore{m: map[string]string{}}
	c, err := NewCache(CacheConfig{Size: 8, Store: store, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	c.Put("hello", "echo", "zh", "你好")
	if store.puts != 1 {
		t.Errorf("store puts = %d, want 1", store.puts)
	}
	if v := store.m[Key("hello", "echo", "zh")]; v != "你好" {
		t.Errorf("store value = %q", v)
	}
}

func TestStatsSnapshot(t *testing.T) {
	s := NewStats()
	s.RecordSuccess("echo", 10*time.Millisecond)
	s.RecordSuccess("echo", 20*time.Millisecond)
	s.RecordFailure("echo")
	s.RecordCacheHit("echo")
	s.RecordSuccess("deepl", 40*time.Millisecond)

	snap := s.Snapshot()

	g := snap.Global
	if g.Total != 5 || g.Success != 3 || g.Fail != 1 || g.CacheHit != 1 {
		t.Errorf("global counters = %+v", g.Counters)
	}
	// Latency averages over successes only.
	wantAvg := (10 + 20 + 40) * time.Millisecond / 3
	if g.AvgLatency != wantAvg {
		t.Errorf("AvgLatency = %v, want %v", g.AvgLatency, wantAvg)
	}
	if g.HitRate != 0.2 {
		t.Errorf("HitRate = %v, want 0.2", g.HitRate)
	}
	if g.FailRate != 0.2 {
		t.Errorf("FailRate = %v, want 0.2", g.FailRate)
	}

	e := snap.Engines["echo"]
	if e.Total != 4 || e.Success != 2 || e.AvgLatency != 15*time.Millisecond {
		t.Errorf("echo metrics = %+v", e)
	}
	if d := snap.Engines["deepl"]; d.Total != 1 || d.AvgLatency != 40*time.Millisecond {
		t.Errorf("deepl metrics = %+v", d)
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	snap := NewStats().Snapshot()
	if snap.Global.Total != 0 || snap.Global.AvgLatency != 0 || snap.Global.HitRate != 0 {
		t.Errorf("empty snapshot = %+v", snap.Global)
	}
	if len(snap.Engines) != 0 {
		t.Errorf("engines = %v", snap.Engines)
	}
}

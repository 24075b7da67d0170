package translate

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultCacheSize bounds the in-memory cache when no size is configured.
const DefaultCacheSize = 2048

// Store is an optional persistent layer behind the in-memory cache. Lookups
// that miss in memory fall through to the store, and successful translations
// are written to both.
type Store interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Key builds the cache key for a translation request. Text is normalized by
// trimming whitespace; the engine and target keep otherwise identical
// requests apart.
func Key(text, engine, target string) string {
	return strings.TrimSpace(text) + "\x00" + engine + "\x00" + target
}

// CacheConfig controls a Cache.
type CacheConfig struct {
	Size   int
	Store  Store // optional
	Logger zerolog.Logger
}

// Cache is a bounded LRU of translation results, optionally backed by a
// persistent Store. Store errors are logged and treated as misses; the cache
// itself never fails a lookup.
type Cache struct {
	cfg CacheConfig
	lru *lru.Cache[string, string]
}

// NewCache returns a cache of the configured size.
func NewCache(cfg CacheConfig) (*Cache, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	l, err := lru.New[string, string](cfg.Size)
	if err != nil {
		return nil, err
	}
	return &Cache{cfg: cfg, lru: l}, nil
}

// Get looks up a prior translation, falling through to the persistent store
// on a memory miss. Store hits are promoted back into memory.
func (c *Cache) Get(text, engine, target string) (string, bool) {
	key := Key(text, engine, target)
	if v, ok := c.lru.Get(key); ok {
		return v, true
	}
	if c.cfg.Store == nil {
		return "", false
	}
	v, ok, err := c.cfg.Store.Get(key)
	if err != nil {
		c.cfg.Logger.Warn().Err(err).Msg("cache store lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}
	c.lru.Add(key, v)
	return v, true
}

// Put records a translation in memory and, when configured, in the
// persistent store.
func (c *Cache) Put(text, engine, target, translated string) {
	key := Key(text, engine, target)
	c.lru.Add(key, translated)
	if c.cfg.Store == nil {
		return
	}
	if err := c.cfg.Store.Put(key, translated); err != nil {
		c.cfg.Logger.Warn().Err(err).Msg("cache store write failed")
	}
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int { return c.lru.Len() }

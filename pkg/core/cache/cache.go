// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     cache
// Description: Generic LRU cache with expiry and the parsed program cache
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// item is one cached value
type item[V any] struct {
	value    V
	expires  time.Time // zero means never
	lastUsed time.Time
}

func (it *item[V]) expired(now time.Time) bool {
	return !it.expires.IsZero() && now.After(it.expires)
}

// Cache is a thread-safe, size bounded map with per-entry expiry. When
// full, the least recently used entry is evicted.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]*item[V]
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

// Config holds cache configuration
type Config struct {
	MaxItems        int
	TTL             time.Duration // 0 keeps entries until evicted
	CleanupInterval time.Duration // default: 1m
}

// New creates a cache and starts its expiry sweeper; call Close to stop it
func New[V any](cfg Config) *Cache[V] {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 1024
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	c := &Cache[V]{
		items:    make(map[string]*item[V], cfg.MaxItems),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go c.sweep(cfg.CleanupInterval)
	return c
}

// Get returns the value for key unless it is missing or expired
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	it, ok := c.items[key]
	if ok && it.expired(now) {
		delete(c.items, key)
		ok = false
	}
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	it.lastUsed = now
	c.hits.Add(1)
	return it.value, true
}

// Set stores value under key with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key; ttl <= 0 never expires
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictLocked(now)
	}

	it := &item[V]{value: value, lastUsed: now}
	if ttl > 0 {
		it.expires = now.Add(ttl)
	}
	c.items[key] = it
}

// GetOrSet returns the cached value or stores the result of fn. Errors are
// not cached.
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes key
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes all entries
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*item[V], c.maxItems)
	c.mu.Unlock()
}

// Size returns the number of entries, expired ones included until swept
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hits, misses and the hit rate in percent
func (c *Cache[V]) Stats() (hits, misses int64, hitRate float64) {
	hits, misses = c.hits.Load(), c.misses.Load()
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return hits, misses, hitRate
}

// Close stops the sweeper
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// evictLocked drops expired entries, or the least recently used one if
// none expired. c.mu must be held.
func (c *Cache[V]) evictLocked(now time.Time) {
	if c.removeExpiredLocked(now) > 0 {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, it := range c.items {
		if oldestKey == "" || it.lastUsed.Before(oldest) {
			oldestKey, oldest = key, it.lastUsed
		}
	}
	delete(c.items, oldestKey)
}

func (c *Cache[V]) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked(c.now())
			c.mu.Unlock()
		}
	}
}

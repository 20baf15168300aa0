// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is a thread-safe in-memory cache implementation.
type MemoryCache struct {
	data       sync.Map
	defaultTTL time.Duration
	maxSize    int // Maximum number of entries (0 = unlimited)
	stopCh     chan struct{}
	closed     atomic.Bool

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	size   atomic.Int64 // Approximate size in bytes
}

// memoryCacheEntry holds a cached value with its expiration time.
// A zero expiresAt never expires.
type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
	size      int64
}

func (e *memoryCacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
	}

	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}

	return c
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	entry := val.(*memoryCacheEntry)
	if entry.expired(time.Now()) {
		c.deleteEntry(key, entry)
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	// Return a copy to prevent mutation
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache with the specified TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if c.maxSize > 0 && c.count() >= c.maxSize {
		c.removeExpired()
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &memoryCacheEntry{
		value: valueCopy,
		size:  int64(len(value)),
	}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	if old, loaded := c.data.Swap(key, entry); loaded {
		c.size.Add(-old.(*memoryCacheEntry).size)
	}

	c.size.Add(entry.size)
	c.sets.Add(1)
	return nil
}

// IncrBy adds delta to the counter at key using compare-and-swap, so
// concurrent increments are never lost.
func (c *MemoryCache) IncrBy(_ context.Context, key string, delta int64) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	for {
		var current int64
		old, loaded := c.data.Load(key)
		if loaded {
			entry := old.(*memoryCacheEntry)
			if !entry.expired(time.Now()) {
				n, err := strconv.ParseInt(string(entry.value), 10, 64)
				if err != nil {
					return 0, ErrNotInteger
				}
				current = n
			}
		}

		next := current + delta
		value := []byte(strconv.FormatInt(next, 10))
		entry := &memoryCacheEntry{value: value, size: int64(len(value))}

		if loaded {
			if c.data.CompareAndSwap(key, old, entry) {
				c.size.Add(entry.size - old.(*memoryCacheEntry).size)
				return next, nil
			}
			continue
		}
		if _, raced := c.data.LoadOrStore(key, entry); !raced {
			c.size.Add(entry.size)
			return next, nil
		}
	}
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if val, loaded := c.data.LoadAndDelete(key); loaded {
		c.size.Add(-val.(*memoryCacheEntry).size)
	}
	return nil
}

// Close stops the cleanup goroutine and releases resources.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats(_ context.Context) Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   c.count(),
		HitRate: hitRate(hits, misses),
		Size:    c.size.Load(),
	}
}

func (c *MemoryCache) count() int {
	count := 0
	c.data.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// deleteEntry removes an entry and updates the size counter.
func (c *MemoryCache) deleteEntry(key string, entry *memoryCacheEntry) {
	if c.data.CompareAndDelete(key, entry) {
		c.size.Add(-entry.size)
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryCacheEntry)
		if entry.expired(now) {
			c.deleteEntry(key.(string), entry)
		}
		return true
	})
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cache         = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)

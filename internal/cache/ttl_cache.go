package cache

import (
	"log/slog"
	"sync"
	"time"
)

// CacheEntry represents a cached item with expiration time
type CacheEntry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// TTLCache implements a thread-safe cache with TTL (Time To Live) functionality
type TTLCache[V any] struct {
	name          string
	items         map[string]*CacheEntry[V]
	mutex         sync.RWMutex
	ttl           time.Duration
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
	observer      Observer
}

// Observer is told about hits and misses, e.g. to feed metrics.
type Observer interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

// NewTTLCache creates a new TTL cache with specified TTL and cleanup interval
func NewTTLCache[V any](name string, ttl, cleanupInterval time.Duration) *TTLCache[V] {
	cache := &TTLCache[V]{
		name:        name,
		items:       make(map[string]*CacheEntry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	// Start cleanup goroutine
	cache.cleanupTicker = time.NewTicker(cleanupInterval)
	go cache.cleanupExpiredEntries()

	slog.Info("TTL cache initialized",
		"cache", name,
		"ttl", ttl.String(),
		"cleanup_interval", cleanupInterval.String())

	return cache
}

// SetObserver attaches a hit/miss observer
func (c *TTLCache[V]) SetObserver(o Observer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.observer = o
}

// Set stores a value in the cache with TTL
func (c *TTLCache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	c.items[key] = &CacheEntry[V]{
		Value:     value,
		ExpiresAt: expiresAt,
	}

	slog.Debug("Cache entry set",
		"cache", c.name,
		"key", key,
		"expires_at", expiresAt.Format(time.RFC3339))
}

// Get retrieves a value from the cache if it exists and hasn't expired
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var zero V
	entry, exists := c.items[key]
	if !exists {
		c.miss()
		return zero, false
	}

	// Check if entry has expired
	if time.Now().After(entry.ExpiresAt) {
		slog.Debug("Cache entry expired", "cache", c.name, "key", key)
		c.miss()
		return zero, false
	}

	slog.Debug("Cache hit", "cache", c.name, "key", key)
	if c.observer != nil {
		c.observer.CacheHit(c.name)
	}
	return entry.Value, true
}

func (c *TTLCache[V]) miss() {
	if c.observer != nil {
		c.observer.CacheMiss(c.name)
	}
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Errors are not cached.
func (c *TTLCache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	c.Set(key, value)
	return value, nil
}

// Update applies fn to a live entry and keeps its expiry. It reports
// whether the key was present.
func (c *TTLCache[V]) Update(key string, fn func(V) V) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.items[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return false
	}
	entry.Value = fn(entry.Value)
	slog.Debug("Cache entry updated", "cache", c.name, "key", key)
	return true
}

// Delete removes a specific key from the cache
func (c *TTLCache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
	slog.Debug("Cache entry deleted", "cache", c.name, "key", key)
}

// Size returns the current number of items in the cache (including expired ones)
func (c *TTLCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

// ActiveSize returns the number of non-expired items in the cache
func (c *TTLCache[V]) ActiveSize() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	activeCount := 0
	for _, entry := range c.items {
		if now.Before(entry.ExpiresAt) {
			activeCount++
		}
	}
	return activeCount
}

// Clear removes all items from the cache
func (c *TTLCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	itemCount := len(c.items)
	c.items = make(map[string]*CacheEntry[V])

	slog.Info("Cache cleared", "cache", c.name, "removed_items", itemCount)
}

// Stop stops the cleanup goroutine and cleans up resources
func (c *TTLCache[V]) Stop() {
	c.stopOnce.Do(func() {
		if c.cleanupTicker != nil {
			c.cleanupTicker.Stop()
		}
		close(c.stopCleanup)
		slog.Info("TTL cache stopped", "cache", c.name)
	})
}

// cleanupExpiredEntries runs periodically to remove expired entries
func (c *TTLCache[V]) cleanupExpiredEntries() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.performCleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

// performCleanup removes expired entries from the cache
func (c *TTLCache[V]) performCleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range c.items {
		if now.After(entry.ExpiresAt) {
			delete(c.items, key)
			removed++
		}
	}

	if removed > 0 {
		slog.Debug("Cache cleanup completed",
			"cache", c.name,
			"expired_entries", removed,
			"remaining_entries", len(c.items))
	}
}

// GetStats returns cache statistics
func (c *TTLCache[V]) GetStats() map[string]interface{} {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	activeCount := 0
	expiredCount := 0

	for _, entry := range c.items {
		if now.Before(entry.ExpiresAt) {
			activeCount++
		} else {
			expiredCount++
		}
	}

	return map[string]interface{}{
		"cache":           c.name,
		"total_entries":   len(c.items),
		"active_entries":  activeCount,
		"expired_entries": expiredCount,
		"ttl_duration":    c.ttl.String(),
	}
}

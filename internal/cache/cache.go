// Package cache provides the explicit report cache that sits in front of
// the attribution engine. The engine itself stays pure: cache keys, TTL,
// and invalidation are owned entirely by the caller (the HTTP layer).
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry is one cached report payload together with when it was computed.
type Entry struct {
	Payload    json.RawMessage `json:"payload"`
	ComputedAt time.Time       `json:"computed_at"`
}

// Cache stores computed report payloads by key.
type Cache interface {
	// Get returns the entry for key, or nil when absent or expired.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores a payload under key, stamped with the current time.
	Set(ctx context.Context, key string, payload []byte) error

	// Invalidate drops the entry for key if present.
	Invalidate(ctx context.Context, key string) error
}

// MemoryCache is an in-process Cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryCache creates an in-process cache. ttl <= 0 means entries never
// expire.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if c.ttl > 0 && c.now().Sub(e.ComputedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return &e, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, payload []byte) error {
	buf := make(json.RawMessage, len(payload))
	copy(buf, payload)
	c.mu.Lock()
	c.entries[key] = Entry{Payload: buf, ComputedAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

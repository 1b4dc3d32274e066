package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/partshop/backend/internal/domain/shared"
)

var _ shared.ReadCache = (*MemoryReadCache)(nil)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryReadCache is a process-local ReadCache. Values are stored as JSON
// so readers never share mutable state with writers.
type MemoryReadCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryReadCache creates an empty MemoryReadCache
func NewMemoryReadCache() *MemoryReadCache {
	return &MemoryReadCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get decodes the value at key into dest. Expired entries are misses.
func (c *MemoryReadCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value for ttl; a non-positive ttl never expires
func (c *MemoryReadCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{raw: raw}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// DeletePrefix removes every key starting with one of the prefixes
func (c *MemoryReadCache) DeletePrefix(_ context.Context, prefixes ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(c.entries, key)
				break
			}
		}
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryReadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

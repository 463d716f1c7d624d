package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// MemoryCache is used when REDIS_URL is empty. It is per-process, so
// revocations and counters are not shared between replicas.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// lookup must be called with mu held.
func (c *MemoryCache) lookup(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (c *MemoryCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

func (c *MemoryCache) GetCache(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	e, ok := c.lookup(key)
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) SetCache(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: raw, expires: c.expiry(ttl)}
	return nil
}

func (c *MemoryCache) DeleteCache(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lookup(key)
	return ok, nil
}

func (c *MemoryCache) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	e, ok := c.lookup(key)
	if ok {
		if err := json.Unmarshal(e.data, &n); err != nil {
			return 0, err
		}
	} else {
		e.expires = c.expiry(ttl)
	}
	n++
	raw, _ := json.Marshal(n)
	e.data = raw
	c.entries[key] = e
	return n, nil
}

func (c *MemoryCache) Close() error { return nil }

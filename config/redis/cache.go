package redis

import (
	"context"
	"time"
)

// Cache is the key/value store behind the roster cache, token revocation
// and login throttling. Values are stored as JSON.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) (bool, error)
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteCache(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Incr bumps a counter; ttl is applied when the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Close() error
}

package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read cache layer.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get looks up key and unmarshals the stored value into dest.
	// Returns found=false on a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

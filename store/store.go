// Package store defines the key-value protocol the cache layer runs on:
// get, set (with TTL), atomic increment, and a liveness ping. Anything that
// offers these primitives with server-side atomicity for Incr can back the
// shared cache; Redis is the expected production implementation, BigCache
// and Ristretto serve single-process deployments.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key. Internal
// transforms (e.g. compression) must be fully reversed.
//
// The keyspaces "search-results:", "static:" and "tasks:" are owned by this
// module. Foreign writes under these prefixes may be treated as corruption by
// strict wire-format validation and deleted.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs plus the two counter primitives the
// versioning protocol needs. Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (ttl <= 0 means no expiry).
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// SetNX stores value only when the key does not exist yet. Returns
	// ok=true when this call created the key.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Incr atomically increments the integer value at key and returns the
	// new value. A missing key counts as 0 before the increment.
	Incr(ctx context.Context, key string) (int64, error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Ping checks liveness of the underlying service.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}

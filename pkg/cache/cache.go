// Package cache stores computed library fingerprints so that they survive
// process restarts and can be shared between instances.
//
// Computing a library version means reading and hashing every file in the
// library. The result only changes when the files change, so it is stored
// under a key derived from the library's file metadata (see [Key]).
//
// Three backends are provided:
//
//   - [NullCache]: never stores anything (every lookup recomputes)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for multi-instance deployments
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and hit=true, or hit=false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

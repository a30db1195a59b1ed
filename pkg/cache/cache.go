// Package cache provides the memoization layer for the waterfall pipeline.
//
// Every pipeline stage (steps, layout, render) is a pure function of its
// inputs, so its output can be stored under a key derived from a content
// hash of those inputs. Identical inputs reuse the stored result; any change
// produces a different key and forces recomputation.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [MemoryCache]: in-process map, used by the HTTP server and tests
//   - [FileCache]: JSON files under a directory, used by the CLI
//   - [RedisCache]: shared cache for multiple server instances
//   - [MongoCache]: persistent cache with a TTL index
//
// [Open] selects a backend from a URL such as "file:///tmp/wf",
// "redis://localhost:6379/0" or "mongodb://localhost:27017/waterfall".
//
// # Keys
//
// A [Keyer] turns stage inputs into cache keys. [DefaultKeyer] hashes the
// key options with SHA-256; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default TTLs for each pipeline stage.
const (
	TTLSteps    = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error. A zero ttl in Set
// means the entry never expires. Implementations must be safe for concurrent
// use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

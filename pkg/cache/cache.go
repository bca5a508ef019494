// Package cache stores rendered artifacts keyed by the DOT text that
// produced them.
//
// Serialization is deterministic, so the SHA-256 hash of the produced text
// plus the render options identifies an artifact exactly. The [Cache]
// interface has three implementations:
//   - [FileCache]: directory-backed, for CLI usage
//   - [RedisCache]: Redis-backed, for multi-instance server deployments
//   - [NullCache]: no-op, for tests or when caching is disabled
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the storage interface for rendered artifacts.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A non-positive ttl stores the
	// value without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for a rendered artifact: the hash of the
// serialized DOT text combined with the output format and layout engine.
func ArtifactKey(dotText, format, engine string) string {
	return fmt.Sprintf("artifact:%s:%s:%s", Hash([]byte(dotText)), format, engine)
}

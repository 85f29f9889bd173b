// Package cache stores rendered exports keyed by the content they were
// rendered from.
//
// Rendering DOT to SVG is the slowest step of an export, and an unchanged
// diagram always renders the same bytes. Callers derive a key with [Key]
// from the DOT source and keep the result in a [Cache]:
//
//	key := cache.Key("svg", []byte(dot))
//	if svg, ok, _ := c.Get(ctx, key); ok {
//	    return svg
//	}
//
// Three implementations are provided: [FileCache] for the CLI, which keeps
// renders across runs, [MemoryCache] for the HTTP server, and [NullCache]
// when caching is disabled.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores byte values with an optional time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Key returns a cache key of the form kind:sha256(data).
func Key(kind string, data []byte) string {
	return kind + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Package cache stores built figures and rendered artifacts by content key.
//
// # Backends
//
//   - [NullCache]: stores nothing; the default when caching is off
//   - [FileCache]: one JSON file per key under a local directory (CLI)
//   - [RedisCache]: a Redis server through go-redis (shared deployments)
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// # Keys
//
// A [Keyer] derives keys from content hashes. Figure keys hash the chart
// request; artifact keys hash the figure plus the render options, so a
// changed title or format never serves a stale page:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(figHash, cache.ArtifactKeyOpts{Format: "html"})
//
// [ScopedKeyer] prefixes every key, which separates tenants that share one
// Redis or MongoDB instance.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	FigureTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A miss is not an error:
// Get reports it through the bool result.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Package cache stores pipeline results between runs.
//
// The CLI keeps loaded raw documents, laid-out scenes and rendered artifacts
// so that re-running a command on unchanged input skips the expensive work.
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as JSON files under a directory
//   - [RedisCache] shares entries between server instances
//
// Keys come from a [Keyer], which hashes everything that influences a
// result. [NewScopedKeyer] adds a prefix so several users or deployments can
// share one backend.
//
// Wrap a backend with [Instrument] to report hits, misses and writes to
// [observability.Cache].
//
//	c, err := cache.NewFileCache(dir)
//	c = cache.Instrument(c)
//	key := cache.NewDefaultKeyer().SceneKey(cache.Hash(raw), cache.SceneKeyOpts{Level: "modules"})
//
// [observability.Cache]: github.com/orakul/orakul/pkg/observability
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero ttl means the entry
// never expires.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default entry lifetimes.
const (
	SourceTTL   = 10 * time.Minute
	SceneTTL    = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

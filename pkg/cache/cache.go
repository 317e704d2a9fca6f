// Package cache provides the caching layer behind comze's registry client.
//
// Two backends are available: a file-based cache for normal CLI usage and a
// Redis-backed cache for shared environments (CI runners that want a warm
// cache across jobs). A NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTLs.
// A zero or negative TTL stores the entry without expiration.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the registry client. Implementations must
// be deterministic: the same inputs always yield the same key.
type Keyer interface {
	// MetadataKey is the key for a package's registry metadata payload.
	MetadataKey(registry, pkg string) string

	// FreshKey is the key for the freshness marker paired with a metadata
	// payload. The marker carries the validation token (Last-Modified) and
	// expires on the metadata TTL; the payload itself does not expire.
	FreshKey(registry, pkg string) string
}

// DefaultKeyer hashes key components so that arbitrary package names map to
// safe, fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MetadataKey generates a key for registry metadata.
func (k *DefaultKeyer) MetadataKey(registry, pkg string) string {
	return hashKey("meta", registry, pkg)
}

// FreshKey generates a key for a metadata freshness marker.
func (k *DefaultKeyer) FreshKey(registry, pkg string) string {
	return hashKey("fresh", registry, pkg)
}

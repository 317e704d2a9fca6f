package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several projects share one cache backend (a Redis
// instance serving multiple CI pipelines) and need separate namespaces.
//
// Example usage:
//
//	// Project-specific keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "proj:api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// MetadataKey generates a prefixed key for registry metadata.
func (k *ScopedKeyer) MetadataKey(registry, pkg string) string {
	return k.prefix + k.inner.MetadataKey(registry, pkg)
}

// FreshKey generates a prefixed key for a metadata freshness marker.
func (k *ScopedKeyer) FreshKey(registry, pkg string) string {
	return k.prefix + k.inner.FreshKey(registry, pkg)
}

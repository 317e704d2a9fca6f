// Package packagist provides access to the Packagist package registry.
//
// # Overview
//
// The client fetches per-package metadata from the p2 endpoint
// (https://repo.packagist.org/p2/{vendor}/{package}.json) and maps it to
// the registry version lists consumed by the selection engine. The p2
// payload is minified and ordered most recent release first; the client
// preserves that ordering.
//
// # Caching
//
// Responses are cached through a [cache.Cache] with a two-key scheme:
// the metadata payload, stored without expiration alongside the
// response's Last-Modified token, and a freshness marker that expires on
// the configured TTL. While the marker is live, lookups are served from the
// cache without touching the network. Once it lapses, the client
// revalidates with If-Modified-Since: a 304 response renews the marker
// without re-downloading, a 200 response replaces both entries.
//
// # Error handling
//
// Lookup returns [cache.ErrNotFound] for unknown packages and
// [cache.ErrNetwork] for HTTP failures. Transient failures (connection
// errors, 5xx) are retried with exponential backoff before surfacing.
package packagist

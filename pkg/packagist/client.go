package packagist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/qoqn/comze/pkg/cache"
	"github.com/qoqn/comze/pkg/errors"
	"github.com/qoqn/comze/pkg/semver"
)

const (
	defaultBaseURL = "https://repo.packagist.org"
	httpTimeout    = 10 * time.Second
	userAgent      = "comze (+https://github.com/qoqn/comze)"
)

// storedMetadata is the cache payload for one package: the mapped version
// list plus the Last-Modified token of the response it came from. The
// payload is stored without expiration; a separate freshness marker with
// the configured TTL decides when it needs revalidation.
type storedMetadata struct {
	LastModified string                   `json:"last_modified"`
	Versions     []semver.RegistryVersion `json:"versions"`
}

// Client provides access to the Packagist package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	baseURL string
	ttl     time.Duration
}

// NewClient creates a Packagist client backed by the given cache.
//
// An empty baseURL selects the public Packagist mirror. The ttl
// parameter sets how long cached metadata is served without
// revalidation. Typical values: 1-24 hours for interactive use, 0 to
// revalidate on every lookup.
func NewClient(c cache.Cache, baseURL string, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
	}
}

// Lookup retrieves the published version list for a package, most recent
// release first, preserving the registry's ordering.
//
// The pkg parameter must be in "vendor/package" format. Platform packages
// (php, ext-*, lib-*) have no registry metadata and return an error with
// code [errors.ErrCodeUnsupported]; callers are expected to filter them
// out beforehand.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
// Otherwise a cached payload is served while its freshness marker is live,
// and revalidated with If-Modified-Since once the marker lapses. A 304
// response renews the marker without re-downloading the metadata.
//
// Returns [cache.ErrNotFound] (wrapped) if the package doesn't exist and
// [cache.ErrNetwork] (wrapped) for HTTP failures after retries.
func (c *Client) Lookup(ctx context.Context, pkg string, refresh bool) ([]semver.RegistryVersion, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	if errors.IsPlatformPackage(pkg) {
		return nil, errors.New(errors.ErrCodeUnsupported, "platform package %s has no registry metadata", pkg)
	}
	if err := errors.ValidateComposerPackageName(pkg); err != nil {
		return nil, err
	}

	metaKey := c.keyer.MetadataKey("packagist", pkg)
	freshKey := c.keyer.FreshKey("packagist", pkg)

	var stored storedMetadata
	haveStored := false
	if data, ok, _ := c.cache.Get(ctx, metaKey); ok {
		haveStored = json.Unmarshal(data, &stored) == nil
	}

	// A non-positive TTL means every lookup revalidates; the marker is
	// neither consulted nor written (a zero-TTL cache entry never expires).
	if !refresh && haveStored && c.ttl > 0 {
		if _, ok, _ := c.cache.Get(ctx, freshKey); ok {
			return stored.Versions, nil
		}
	}

	// Revalidate with the stored token unless the caller forced a refresh.
	ims := ""
	if !refresh && haveStored {
		ims = stored.LastModified
	}

	var (
		versions     []semver.RegistryVersion
		lastModified string
		notModified  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		versions, lastModified, notModified, err = c.fetch(ctx, pkg, ims)
		return err
	})
	if err != nil {
		return nil, err
	}

	if notModified {
		// Payload unchanged upstream: renew the marker only.
		if c.ttl > 0 {
			_ = c.cache.Set(ctx, freshKey, []byte("1"), c.ttl)
		}
		return stored.Versions, nil
	}

	stored = storedMetadata{LastModified: lastModified, Versions: versions}
	if data, err := json.Marshal(stored); err == nil {
		_ = c.cache.Set(ctx, metaKey, data, 0)
		if c.ttl > 0 {
			_ = c.cache.Set(ctx, freshKey, []byte("1"), c.ttl)
		}
	}
	return versions, nil
}

func (c *Client) fetch(ctx context.Context, pkg, ims string) (versions []semver.RegistryVersion, lastModified string, notModified bool, err error) {
	url := fmt.Sprintf("%s/p2/%s.json", c.baseURL, pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if ims != "" {
		req.Header.Set("If-Modified-Since", ims)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", false, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return nil, "", true, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", false, fmt.Errorf("%w: packagist package %s", cache.ErrNotFound, pkg)
	case resp.StatusCode >= 500:
		return nil, "", false, cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, "", false, fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}

	var data p2Response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, "", false, err
	}

	entries, ok := data.Packages[pkg]
	if !ok || len(entries) == 0 {
		return nil, "", false, fmt.Errorf("%w: no versions for %s", cache.ErrNotFound, pkg)
	}
	return mapVersions(entries), resp.Header.Get("Last-Modified"), false, nil
}

// mapVersions converts p2 wire entries to registry versions, keeping the
// payload order.
func mapVersions(entries []p2Version) []semver.RegistryVersion {
	versions := make([]semver.RegistryVersion, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, semver.RegistryVersion{
			Version:    e.Version,
			Released:   e.Time,
			Runtime:    e.Require["php"],
			Abandoned:  e.Abandoned,
			ReplacedBy: e.ReplacedBy,
		})
	}
	return versions
}

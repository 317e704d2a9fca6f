package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the settings read from ~/.config/comze/config.toml.
// Flags override config values; config values override the defaults.
type Config struct {
	// Registry is the package registry base URL.
	Registry string `toml:"registry"`

	// CacheTTL is how long registry metadata is served without
	// revalidation, in time.ParseDuration syntax ("1h", "30m").
	CacheTTL string `toml:"cache_ttl"`

	// CacheBackend selects the cache: "file" (default), "redis", "none".
	CacheBackend string `toml:"cache_backend"`

	// RedisAddr is the Redis address for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// Exclude lists packages never checked, merged with --exclude.
	Exclude []string `toml:"exclude"`

	// Composer is the composer executable used by --install.
	Composer string `toml:"composer"`
}

func defaultConfig() Config {
	return Config{
		CacheTTL:     "1h",
		CacheBackend: "file",
		RedisAddr:    "localhost:6379",
		Composer:     "composer",
	}
}

// loadConfig reads the config file if present and fills in defaults.
// A missing file is not an error; a malformed one is.
func (c *CLI) loadConfig() (Config, error) {
	cfg := defaultConfig()

	dir, err := configDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// ttl parses the configured cache TTL, falling back to one hour.
func (cfg Config) ttl() time.Duration {
	d, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil || d < 0 {
		return time.Hour
	}
	return d
}

// Package cli implements the comze command-line interface.
//
// This package provides commands for checking composer.json dependencies
// against Packagist, rewriting constraints in place, and managing the
// registry metadata cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - check: Look up every dependency and report available updates
//   - cache: Manage the registry metadata cache
//   - completion: Generate shell completion scripts
//
// Running comze with no subcommand is equivalent to `comze check`.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/qoqn/comze/pkg/buildinfo"
	"github.com/qoqn/comze/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "comze"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "comze checks composer.json dependencies for updates",
		Long:         `comze checks a project's composer.json against Packagist, classifies available updates by semantic-version severity, and can rewrite the manifest in place while preserving its formatting.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `comze` runs a default check on the working directory.
			return c.runCheck(cmd.Context(), "composer.json", defaultCheckOpts())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the cache backend selected by flags and config.
func (c *CLI) newCache(ctx context.Context, noCache bool, cfg Config) cache.Cache {
	if noCache || cfg.CacheBackend == "none" {
		return cache.NewNullCache()
	}

	if cfg.CacheBackend == "redis" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "addr", cfg.RedisAddr, "error", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/comze/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/comze/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

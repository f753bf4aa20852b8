// Package cli implements the needful command-line interface.
//
// The CLI serves the demo application and inspects asset libraries: the
// demo's own, those declared in a manifest, and those registered
// process-wide. It is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
//   - serve: Run the demo application with the publisher mounted
//   - render: Print the markup for a set of needed resources
//   - libraries: List libraries, their resources and fingerprints
//   - browse: Pick a library and resource interactively
//   - graph: Export the resource dependency graph as DOT or SVG
//   - cache: Manage the fingerprint cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/needful/internal/demo"
	"github.com/matzehuels/needful/pkg/cache"
	"github.com/matzehuels/needful/pkg/config"
	"github.com/matzehuels/needful/pkg/manifest"
	"github.com/matzehuels/needful/pkg/needs"
	"github.com/matzehuels/needful/pkg/web"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "needful"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath   string
	manifestPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Environment
// =============================================================================

// env is what most commands work against: the configured demo App, its
// needs manager and the optional manifest.
type env struct {
	cfg      *config.Config
	app      *web.App
	manager  *needs.Manager
	manifest *manifest.Manifest
	cache    cache.Cache
}

func (e *env) Close() error { return e.cache.Close() }

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.manifestPath != "" {
		cfg.Manifest = c.manifestPath
	}
	return cfg, nil
}

// setup loads the configuration and builds the demo App with the
// manifest's libraries added to its publisher.
func (c *CLI) setup(ctx context.Context, cfg *config.Config) (*env, error) {
	logger := loggerFromContext(ctx)
	if cfg == nil {
		var err error
		if cfg, err = c.loadConfig(); err != nil {
			return nil, err
		}
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && lvl < c.Logger.GetLevel() {
		c.SetLogLevel(lvl)
	}

	app, err := demo.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	mgr, err := needs.ManagerFor(app)
	if err != nil {
		return nil, err
	}
	ch, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	mgr.SetCache(ch)

	e := &env{cfg: cfg, app: app, manager: mgr, cache: ch}
	if cfg.Manifest != "" {
		m, err := manifest.Open(cfg.Manifest)
		if err != nil {
			ch.Close()
			return nil, err
		}
		m.Register(mgr.Registry())
		e.manifest = m
		logger.Debug("loaded manifest", "path", cfg.Manifest, "libraries", len(m.Libraries()))
	}
	return e, nil
}

func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, fmt.Errorf("get cache dir: %w", err)
			}
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.OpenRedis(ctx, cfg.RedisURL, cfg.Prefix)
	}
	return cache.NewNullCache(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/needful/).
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

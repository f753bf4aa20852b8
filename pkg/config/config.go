// Package config loads needful configuration from a TOML file and overlays
// environment variables.
//
// Precedence, lowest to highest: [Default], the TOML file, NEEDFUL_*
// environment variables. Keys under [needs] are handed to the asset layer
// unchanged (see asset.Options).
//
//	[server]
//	addr = ":8080"
//
//	[needs]
//	publisher_signature = "static"
//	versioning = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/needful/pkg/asset"
	"github.com/matzehuels/needful/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "NEEDFUL_"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server   Server        `toml:"server"`
	Log      Log           `toml:"log"`
	Cache    Cache         `toml:"cache"`
	Needs    asset.Options `toml:"needs" envPrefix:"NEEDS_"`
	Manifest string        `toml:"manifest" env:"MANIFEST"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr string `toml:"addr" env:"ADDR"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
}

// Cache selects where library fingerprints are stored.
type Cache struct {
	Backend  string `toml:"backend" env:"CACHE_BACKEND"`
	Dir      string `toml:"dir" env:"CACHE_DIR"`
	RedisURL string `toml:"redis_url" env:"REDIS_URL"`
	Prefix   string `toml:"prefix" env:"CACHE_PREFIX"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
		Cache:  Cache{Backend: CacheNone, Prefix: "needful:"},
		Needs:  asset.Options{PublisherSignature: asset.DefaultSignature},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result. Unknown TOML keys are rejected.
// Relative manifest and cache paths in the file are relative to the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.New(errors.ErrCodeConfiguration, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
		base := filepath.Dir(path)
		cfg.Manifest = relativeTo(base, cfg.Manifest)
		cfg.Cache.Dir = relativeTo(base, cfg.Cache.Dir)
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func relativeTo(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ParseEnv overlays NEEDFUL_* environment variables onto target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeConfiguration, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeConfiguration, "unknown cache backend %q", c.Cache.Backend)
	}
	return c.Needs.Validate()
}

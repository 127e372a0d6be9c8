// Package config loads the user configuration of the orakul CLI.
//
// The file lives at $XDG_CONFIG_HOME/orakul/config.toml (falling back to
// ~/.config/orakul/config.toml). Missing files and missing keys take the
// defaults; command-line flags override both.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/layout"
)

// Config is the on-disk configuration.
type Config struct {
	View   ViewConfig     `toml:"view"`
	Layout layout.Options `toml:"layout"`
	Render RenderConfig   `toml:"render"`
	Cache  CacheConfig    `toml:"cache"`
	Mongo  MongoConfig    `toml:"mongo"`
	Serve  ServeConfig    `toml:"serve"`
}

// ViewConfig sets the initial view.
type ViewConfig struct {
	Level     string `toml:"level" validate:"omitempty,oneof=abstract modules components"`
	Direction string `toml:"direction" validate:"omitempty,oneof=TB BT LR RL"`
}

// RenderConfig sets rendering defaults.
type RenderConfig struct {
	Engine   string   `toml:"engine" validate:"omitempty,oneof=dot pinned"`
	Formats  []string `toml:"formats" validate:"dive,oneof=svg png pdf dot json"`
	Detailed bool     `toml:"detailed"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend  string   `toml:"backend" validate:"oneof=file redis none"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// MongoConfig selects the document read from MongoDB sources.
type MongoConfig struct {
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	Timeout    Duration `toml:"timeout"`
}

// ServeConfig configures the HTTP host.
type ServeConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// Duration is a time.Duration written as a string ("10s") in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		View:   ViewConfig{Level: "abstract", Direction: "TB"},
		Layout: layout.DefaultOptions(),
		Render: RenderConfig{Engine: "dot", Formats: []string{"svg"}},
		Cache:  CacheConfig{Backend: "file"},
		Mongo:  MongoConfig{Database: "orakul", Collection: "systems", Timeout: Duration{10 * time.Second}},
		Serve:  ServeConfig{Addr: "localhost:8420"},
	}
}

// Dir returns the orakul config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "orakul")
}

// Path returns the config file path.
func Path() string { return filepath.Join(Dir(), "config.toml") }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config")
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateURL(c.Cache.RedisURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	}
	return nil
}

// Load reads path (Path() when empty) over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path (Path() when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

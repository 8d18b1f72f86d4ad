// Package config loads settings for the mindmap CLI and server.
//
// Settings come from three layers, later ones winning:
//
//  1. [Default]
//  2. a TOML file (--config, or $XDG_CONFIG_HOME/mindmap/config.toml)
//  3. MINDMAP_* environment variables, e.g. MINDMAP_SERVER_ADDR or
//     MINDMAP_LAYOUT_PALETTE="#111,#222"
//
// Command-line flags are applied by the CLI on top of the result.
//
//	[layout]
//	compact = true
//
//	[navigation]
//	mode = "summary"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/interact"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/textwrap"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/roadmap/mongostore"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "MINDMAP_"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds all settings.
type Config struct {
	Layout     LayoutConfig     `toml:"layout" envPrefix:"LAYOUT_"`
	Viewport   ViewportConfig   `toml:"viewport" envPrefix:"VIEWPORT_"`
	Navigation NavigationConfig `toml:"navigation" envPrefix:"NAVIGATION_"`
	Server     ServerConfig     `toml:"server" envPrefix:"SERVER_"`
	Cache      CacheConfig      `toml:"cache" envPrefix:"CACHE_"`
	Mongo      MongoConfig      `toml:"mongo" envPrefix:"MONGO_"`
}

// LayoutConfig overrides layout constants. Zero values keep the defaults.
type LayoutConfig struct {
	Compact      bool     `toml:"compact" env:"COMPACT"`
	Palette      []string `toml:"palette" env:"PALETTE" envSeparator:","`
	StageSpacing float64  `toml:"stage_spacing" env:"STAGE_SPACING"`
	ChildSpacing float64  `toml:"child_spacing" env:"CHILD_SPACING"`
	CharWidth    float64  `toml:"char_width" env:"CHAR_WIDTH"`
	MaxLines     int      `toml:"max_lines" env:"MAX_LINES"` // negative removes the cap
}

// ViewportConfig holds the zoom limits.
type ViewportConfig struct {
	MinScale         float64 `toml:"min_scale" env:"MIN_SCALE"`
	MaxScale         float64 `toml:"max_scale" env:"MAX_SCALE"`
	ZoomStep         float64 `toml:"zoom_step" env:"ZOOM_STEP"`
	WheelSensitivity float64 `toml:"wheel_sensitivity" env:"WHEEL_SENSITIVITY"`
}

// NavigationConfig controls selection and activation.
type NavigationConfig struct {
	Mode             string `toml:"mode" env:"MODE"` // navigate or summary
	InitialSelection string `toml:"initial_selection" env:"INITIAL_SELECTION"`
	Collapsed        bool   `toml:"collapsed" env:"COLLAPSED"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string        `toml:"addr" env:"ADDR"`
	ReadTimeout  time.Duration `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	MaxViews     int           `toml:"max_views" env:"MAX_VIEWS"`
	ViewTTL      time.Duration `toml:"view_ttl" env:"VIEW_TTL"`
	MaxBodyBytes int64         `toml:"max_body_bytes" env:"MAX_BODY_BYTES"`
}

// CacheConfig selects the scene and artifact cache.
type CacheConfig struct {
	Backend  string `toml:"backend" env:"BACKEND"` // file, redis or none
	Dir      string `toml:"dir" env:"DIR"`
	RedisURL string `toml:"redis_url" env:"REDIS_URL"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

// MongoConfig locates stored roadmaps. An empty URI disables the store.
type MongoConfig struct {
	URI        string        `toml:"uri" env:"URI"`
	Database   string        `toml:"database" env:"DATABASE"`
	Collection string        `toml:"collection" env:"COLLECTION"`
	Timeout    time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			MinScale:         viewport.DefaultMinScale,
			MaxScale:         viewport.DefaultMaxScale,
			ZoomStep:         viewport.DefaultZoomStep,
			WheelSensitivity: viewport.DefaultWheelSensitivity,
		},
		Navigation: NavigationConfig{Mode: interact.ModeNavigate.String()},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxViews:     1000,
			ViewTTL:      30 * time.Minute,
			MaxBodyBytes: 4 << 20,
		},
		Cache: CacheConfig{Backend: CacheFile, Dir: DefaultCacheDir()},
		Mongo: MongoConfig{
			Database:   mongostore.DefaultDatabase,
			Collection: mongostore.DefaultCollection,
			Timeout:    mongostore.DefaultTimeout,
		},
	}
}

// Dir returns the mindmap config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindmap")
}

// DefaultPath returns the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultCacheDir returns the file cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mindmap")
}

// Load builds the configuration. An empty path reads DefaultPath if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	if err := errors.ValidateFilePath(path); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil
	}

	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports inconsistent settings.
func (c *Config) Validate() error {
	if _, err := interact.ParseMode(c.Navigation.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "navigation.mode")
	}
	if id := c.Navigation.InitialSelection; id != "" {
		if err := errors.ValidateNodeID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "navigation.initial_selection")
		}
	}
	if err := c.ViewportOptions(0, 0).Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "viewport")
	}
	if err := c.LayoutOptions().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}

	if c.Server.MaxViews < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_views must not be negative")
	}
	return nil
}

// LayoutOptions returns the layout options with overrides applied.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if c.Layout.Compact {
		opts = layout.CompactOptions()
	}
	if len(c.Layout.Palette) > 0 {
		opts.Palette = c.Layout.Palette
	}
	if c.Layout.StageSpacing > 0 {
		opts.StageSpacing = c.Layout.StageSpacing
	}
	if c.Layout.ChildSpacing > 0 {
		opts.ChildSpacing = c.Layout.ChildSpacing
	}
	if c.Layout.CharWidth > 0 {
		opts.Wrap.CharWidth = c.Layout.CharWidth
	}
	switch {
	case c.Layout.MaxLines > 0:
		opts.Wrap.MaxLines = c.Layout.MaxLines
	case c.Layout.MaxLines < 0:
		opts.Wrap = textwrap.Summary()
		if c.Layout.CharWidth > 0 {
			opts.Wrap.CharWidth = c.Layout.CharWidth
		}
	}
	return opts
}

// ViewportOptions returns the viewport options for a w by h viewport.
func (c *Config) ViewportOptions(w, h float64) viewport.Options {
	return viewport.Options{
		MinScale:         c.Viewport.MinScale,
		MaxScale:         c.Viewport.MaxScale,
		ZoomStep:         c.Viewport.ZoomStep,
		WheelSensitivity: c.Viewport.WheelSensitivity,
		Width:            w,
		Height:           h,
	}
}

// Mode returns the activation mode. Load has already validated it.
func (c *Config) Mode() interact.Mode {
	m, _ := interact.ParseMode(c.Navigation.Mode)
	return m
}

// MongoStore returns the roadmap store settings.
func (c *Config) MongoStore() mongostore.Config {
	return mongostore.Config{
		URI:        c.Mongo.URI,
		Database:   c.Mongo.Database,
		Collection: c.Mongo.Collection,
		Timeout:    c.Mongo.Timeout,
	}
}

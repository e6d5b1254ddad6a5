// Package config loads archscope settings from an optional TOML file and
// ARCHSCOPE_* environment variables, on top of built-in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/matzehuels/archscope/pkg/layout"
)

// EnvPrefix prefixes every environment override, e.g. ARCHSCOPE_LAYOUT_SEED
// for layout.seed.
const EnvPrefix = "ARCHSCOPE"

// Config represents the complete archscope configuration
type Config struct {
	Layout LayoutConfig `mapstructure:"layout"`
	Render RenderConfig `mapstructure:"render"`
	Serve  ServeConfig  `mapstructure:"serve"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// LayoutConfig tunes the force-directed layout
type LayoutConfig struct {
	// Seed for the initial placement (default: 1)
	Seed uint64 `mapstructure:"seed"`
	// Iterations is the number of simulation steps (default: 50)
	Iterations         int     `mapstructure:"iterations"`
	SpringLength       float64 `mapstructure:"spring_length"`
	Attraction         float64 `mapstructure:"attraction"`
	Repulsion          float64 `mapstructure:"repulsion"`
	MinDistance        float64 `mapstructure:"min_distance"`
	InitialTemperature float64 `mapstructure:"initial_temperature"`
}

// RenderConfig controls the render command
type RenderConfig struct {
	// Formats written when -f is not given (default: ["svg"])
	Formats []string `mapstructure:"formats"`
	// Output is the base path without extension (default: the input file name)
	Output string `mapstructure:"output"`
	// Detailed adds IDs and metadata to diagram labels
	Detailed bool `mapstructure:"detailed"`
	// Scale is the half-width of node-link diagrams in inches (default: 4)
	Scale float64 `mapstructure:"scale"`
	// PNGScale is the rasterization factor for PNG output (default: 2)
	PNGScale float64 `mapstructure:"png_scale"`
}

// ServeConfig controls the read-only HTTP API
type ServeConfig struct {
	// Addr is the listen address (default: "127.0.0.1:8080")
	Addr string `mapstructure:"addr"`
	// MaxIterations caps the ?iterations= a client may request (default: 1000)
	MaxIterations int `mapstructure:"max_iterations"`
}

// CacheConfig controls the on-disk layout and artifact cache
type CacheConfig struct {
	// Enabled turns caching on for the render command (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Dir overrides the cache location (default: [CacheDir])
	Dir string `mapstructure:"dir"`
	// RedisURL points the serve command at a shared Redis cache
	// (e.g. "redis://localhost:6379/0"). Empty keeps layouts in memory.
	RedisURL string `mapstructure:"redis_url"`
}

// Path returns the configured cache directory, falling back to [CacheDir].
func (c CacheConfig) Path() string {
	if c.Dir != "" {
		return c.Dir
	}
	return CacheDir()
}

// Default returns a Config with the built-in defaults
func Default() *Config {
	force := layout.DefaultForceOptions()
	return &Config{
		Layout: LayoutConfig{
			Seed:               force.Seed,
			Iterations:         force.Iterations,
			SpringLength:       force.SpringLength,
			Attraction:         force.Attraction,
			Repulsion:          force.Repulsion,
			MinDistance:        force.MinDistance,
			InitialTemperature: force.InitialTemperature,
		},
		Render: RenderConfig{
			Formats:  []string{"svg"},
			Scale:    4,
			PNGScale: 2,
		},
		Serve: ServeConfig{
			Addr:          "127.0.0.1:8080",
			MaxIterations: 1000,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// ForceOptions converts the layout section to layout engine options.
func (c LayoutConfig) ForceOptions() layout.ForceOptions {
	return layout.ForceOptions{
		Iterations:         c.Iterations,
		Seed:               c.Seed,
		SpringLength:       c.SpringLength,
		Attraction:         c.Attraction,
		Repulsion:          c.Repulsion,
		MinDistance:        c.MinDistance,
		InitialTemperature: c.InitialTemperature,
	}
}

// SetDefaults registers every default with v so that environment variables
// can override keys that no config file mentions.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	// Layout defaults
	v.SetDefault("layout.seed", defaults.Layout.Seed)
	v.SetDefault("layout.iterations", defaults.Layout.Iterations)
	v.SetDefault("layout.spring_length", defaults.Layout.SpringLength)
	v.SetDefault("layout.attraction", defaults.Layout.Attraction)
	v.SetDefault("layout.repulsion", defaults.Layout.Repulsion)
	v.SetDefault("layout.min_distance", defaults.Layout.MinDistance)
	v.SetDefault("layout.initial_temperature", defaults.Layout.InitialTemperature)

	// Render defaults
	v.SetDefault("render.formats", defaults.Render.Formats)
	v.SetDefault("render.output", defaults.Render.Output)
	v.SetDefault("render.detailed", defaults.Render.Detailed)
	v.SetDefault("render.scale", defaults.Render.Scale)
	v.SetDefault("render.png_scale", defaults.Render.PNGScale)

	// Serve defaults
	v.SetDefault("serve.addr", defaults.Serve.Addr)
	v.SetDefault("serve.max_iterations", defaults.Serve.MaxIterations)

	// Cache defaults
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.dir", defaults.Cache.Dir)
	v.SetDefault("cache.redis_url", defaults.Cache.RedisURL)
}

// Load reads the configuration. An explicit path must exist; with an empty
// path the file at [File] is used when present and skipped otherwise.
// Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	// ARCHSCOPE_RENDER_PNG_SCALE for render.png_scale
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Dir returns the path to the user's config directory
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "archscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".archscope"
	}
	return filepath.Join(home, ".config", "archscope")
}

// File returns the path to the default config file
func File() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default cache directory
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "archscope")
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".archscope", "cache")
	}
	return filepath.Join(dir, "archscope")
}

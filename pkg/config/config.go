// Package config loads arbor settings from a TOML file.
//
// Angles are written in degrees in the file and converted to radians when
// the core option structs are built. Missing keys keep their defaults, so
// an empty file is a valid configuration.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// FileName is the config file looked up in the working directory.
const FileName = "arbor.toml"

// Config is the root of arbor.toml.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Growth GrowthConfig `toml:"growth"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds static layout parameters.
type LayoutConfig struct {
	BranchAngleDeg  float64      `toml:"branch_angle_deg"`
	BranchFactor    float64      `toml:"branch_factor"`
	MinBranchLength float64      `toml:"min_branch_length"`
	MaxDepth        int          `toml:"max_depth"`
	OriginX         float64      `toml:"origin_x"`
	OriginY         float64      `toml:"origin_y"`
	Seed            uint64       `toml:"seed"`
	Bands           []BandConfig `toml:"bands,omitempty"`
}

// BandConfig is one scale band. Max = -1 means unbounded.
type BandConfig struct {
	Min         int     `toml:"min"`
	Max         int     `toml:"max"`
	BaseLength  float64 `toml:"base_length"`
	BaseSpacing float64 `toml:"base_spacing"`
}

// GrowthConfig holds growth simulation parameters.
type GrowthConfig struct {
	GrowthSpeed     float64 `toml:"growth_speed"`
	BranchAngleDeg  float64 `toml:"branch_angle_deg"`
	BranchFactor    float64 `toml:"branch_factor"`
	MinBranchLength float64 `toml:"min_branch_length"`
	MaxDepth        int     `toml:"max_depth"`
	GrowthCadence   int     `toml:"growth_cadence"`
	FastCadence     int     `toml:"fast_cadence"`
	BranchEndCutoff int     `toml:"branch_end_cutoff"`
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	Seed            uint64  `toml:"seed"`
	TickInterval    string  `toml:"tick_interval"`
}

// RenderConfig holds renderer defaults.
type RenderConfig struct {
	Scheme     int    `toml:"scheme"`
	Background string `toml:"background"`
	Format     string `toml:"format"`
}

// CacheConfig selects the cache backend: "file", "redis" or "none".
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir,omitempty"`
	RedisURL string `toml:"redis_url,omitempty"`
	TTL      string `toml:"ttl"`
}

// StoreConfig configures the MongoDB layout store. Empty URI disables it.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri,omitempty"`
	Database string `toml:"database"`
}

// ServerConfig configures `arbor serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	lo := layout.DefaultOptions()
	g := growth.DefaultConfig()
	return Config{
		Layout: LayoutConfig{
			BranchAngleDeg:  degrees(lo.BranchAngle),
			BranchFactor:    lo.BranchFactor,
			MinBranchLength: lo.MinBranchLength,
			MaxDepth:        lo.MaxDepth,
			OriginX:         600,
			OriginY:         650,
			Seed:            42,
		},
		Growth: GrowthConfig{
			GrowthSpeed:     g.GrowthSpeed,
			BranchAngleDeg:  degrees(g.BranchAngle),
			BranchFactor:    g.BranchFactor,
			MinBranchLength: g.MinBranchLength,
			MaxDepth:        g.MaxDepth,
			GrowthCadence:   g.GrowthCadence,
			FastCadence:     g.FastCadence,
			BranchEndCutoff: g.BranchEndCutoff,
			Width:           growth.DefaultCanvasWidth,
			Height:          growth.DefaultCanvasHeight,
			Seed:            42,
			TickInterval:    "16ms",
		},
		Render: RenderConfig{
			Scheme:     0,
			Background: "#0a0a1e",
			Format:     "svg",
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     "24h",
		},
		Store: StoreConfig{
			Database: "arbor",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error
// when path is the default FileName.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && filepath.Base(path) == FileName {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping values for absent keys, then
// validates the result. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores cfg at path.
func Write(cfg Config, path string) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section that has core validation plus the
// durations and backend names.
func (c Config) Validate() error {
	if err := c.LayoutOptions().Validate(); err != nil {
		return err
	}
	if err := c.GrowthRules().Validate(); err != nil {
		return err
	}
	if _, err := c.Growth.Interval(); err != nil {
		return err
	}
	if _, err := c.Cache.Duration(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Render.Background != "" {
		if _, err := palette.ParseHex(c.Render.Background); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid render.background")
		}
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	return nil
}

// LayoutOptions converts the layout section. Rand is left nil.
func (c Config) LayoutOptions() layout.Options {
	l := c.Layout
	opts := layout.Options{
		BranchAngle:     radians(l.BranchAngleDeg),
		BranchFactor:    l.BranchFactor,
		MinBranchLength: l.MinBranchLength,
		MaxDepth:        l.MaxDepth,
	}
	for _, b := range l.Bands {
		opts.Bands = append(opts.Bands, layout.Band{
			Min: b.Min, Max: b.Max, BaseLength: b.BaseLength, BaseSpacing: b.BaseSpacing,
		})
	}
	return opts
}

// Origin returns the layout origin.
func (c Config) Origin() layout.Position {
	return layout.Position{X: c.Layout.OriginX, Y: c.Layout.OriginY}
}

// GrowthRules converts the growth section.
func (c Config) GrowthRules() growth.Config {
	g := c.Growth
	return growth.Config{
		GrowthSpeed:     g.GrowthSpeed,
		BranchAngle:     radians(g.BranchAngleDeg),
		BranchFactor:    g.BranchFactor,
		MinBranchLength: g.MinBranchLength,
		MaxDepth:        g.MaxDepth,
		GrowthCadence:   g.GrowthCadence,
		FastCadence:     g.FastCadence,
		BranchEndCutoff: g.BranchEndCutoff,
	}
}

// GrowthSeed returns the trunk for the configured canvas.
func (c Config) GrowthSeed() growth.Seed {
	return growth.SeedFor(c.Growth.Width, c.Growth.Height)
}

// Interval parses TickInterval; empty means 16ms.
func (g GrowthConfig) Interval() (time.Duration, error) {
	return parseDuration("tick_interval", g.TickInterval, 16*time.Millisecond)
}

// Duration parses TTL; empty means 24h.
func (c CacheConfig) Duration() (time.Duration, error) {
	return parseDuration("ttl", c.TTL, 24*time.Hour)
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", key)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %s", key, s)
	}
	return d, nil
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func radians(deg float64) float64 { return deg * math.Pi / 180 }

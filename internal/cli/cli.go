// Package cli implements the arbor command-line interface.
//
// # Commands
//
//   - layout: place a tree file and render it (svg, png, dot, json)
//   - render: render a saved layout JSON again
//   - grow: animate a growing tree in the terminal, or run it headless
//   - serve: expose layouts and simulations over HTTP
//   - cache, config: manage the result cache and the arbor.toml file
//
// # Logging
//
// The --verbose (-v) flag added by main switches to debug logging. The
// logger travels to subcommands through context.Context.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/buildinfo"
	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "arbor"

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

	// ConfigPath is set by the persistent --config flag.
	ConfigPath string
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
		Use:   appName,
		Short: "Arbor lays out trees as branching fractals and grows them",
		Long: `Arbor places the nodes of a rooted tree along branches that fan out from
their parent, shrinking at every level, and can animate the same process
as an organically growing fractal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ./"+config.FileName+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.growCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or arbor.toml when present.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.ConfigPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// redisKeyPrefix namespaces arbor's entries in a shared Redis.
const redisKeyPrefix = "arbor:v1:"

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if !noCache && cfg.Cache.Backend == "redis" {
		keyer = cache.NewScopedKeyer(nil, redisKeyPrefix)
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL, _ = cfg.Cache.Duration()
	return r, nil
}

func newCache(ctx context.Context, cc config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cc.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cc.Backend == "redis" {
		return cache.NewRedisCache(ctx, cc.RedisURL)
	}
	dir, err := cacheDir(cc)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newStore opens the MongoDB store, or an in-memory one when no URI is set.
func newStore(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	if sc.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.Connect(ctx, sc.MongoURI, sc.Database)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/arbor/).
func cacheDir(cc config.CacheConfig) (string, error) {
	if cc.Dir != "" {
		return cc.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// layoutFlags are the flags shared by layout-producing commands. Flags the
// user did not set fall back to the config file.
type layoutFlags struct {
	angle, factor, minLength float64
	maxDepth                 int
	originX, originY         float64
	seed                     uint64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	def := config.Default().Layout
	cmd.Flags().Float64Var(&f.angle, "angle", def.BranchAngleDeg, "branch angle in degrees")
	cmd.Flags().Float64Var(&f.factor, "factor", def.BranchFactor, "branch length factor per level")
	cmd.Flags().Float64Var(&f.minLength, "min-length", def.MinBranchLength, "minimum branch length")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", def.MaxDepth, "maximum recursion depth")
	cmd.Flags().Float64Var(&f.originX, "origin-x", def.OriginX, "root x coordinate")
	cmd.Flags().Float64Var(&f.originY, "origin-y", def.OriginY, "root y coordinate")
	cmd.Flags().Uint64Var(&f.seed, "seed", def.Seed, "random seed")
}

// apply merges the flags over cfg into opts.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg config.Config, opts *pipeline.Options) {
	l := cfg.Layout
	changed := cmd.Flags().Changed
	opts.BranchAngleDeg = pick(changed("angle"), f.angle, l.BranchAngleDeg)
	opts.BranchFactor = pick(changed("factor"), f.factor, l.BranchFactor)
	opts.MinBranchLength = pick(changed("min-length"), f.minLength, l.MinBranchLength)
	opts.MaxDepth = pick(changed("max-depth"), f.maxDepth, l.MaxDepth)
	opts.OriginX = pick(changed("origin-x"), f.originX, l.OriginX)
	opts.OriginY = pick(changed("origin-y"), f.originY, l.OriginY)
	opts.Seed = pick(changed("seed"), f.seed, l.Seed)
	opts.Bands = cfg.LayoutOptions().Bands
}

// renderFlags are the flags shared by commands that write artifacts.
type renderFlags struct {
	formats    string
	vizType    string
	scheme     string
	width      int
	height     int
	background string
	detailed   bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: branches, nodelink")
	cmd.Flags().StringVar(&f.scheme, "scheme", "", "colour scheme name or index")
	cmd.Flags().IntVar(&f.width, "width", pipeline.DefaultWidth, "canvas width")
	cmd.Flags().IntVar(&f.height, "height", pipeline.DefaultHeight, "canvas height")
	cmd.Flags().StringVar(&f.background, "background", "", "background colour (#rrggbb)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "label nodes (nodelink)")
}

// apply merges the flags over cfg into opts.
func (f *renderFlags) apply(cmd *cobra.Command, cfg config.Config, opts *pipeline.Options) error {
	formats := cfg.Render.Format
	if cmd.Flags().Changed("format") {
		formats = f.formats
	}
	opts.Formats = parseFormats(formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	opts.VizType = f.vizType
	opts.Width, opts.Height = f.width, f.height
	opts.Detailed = f.detailed
	opts.Background = pick(cmd.Flags().Changed("background"), f.background, cfg.Render.Background)

	scheme, err := resolveScheme(f.scheme, cfg.Render.Scheme)
	if err != nil {
		return err
	}
	opts.Scheme = scheme
	return nil
}

func pick[T any](changed bool, flag, fallback T) T {
	if changed {
		return flag
	}
	return fallback
}

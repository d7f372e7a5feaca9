// Package pipeline runs the arbor layout and growth pipelines.
//
// This package implements the graph → layout → render pipeline and the
// headless growth simulation used by the CLI and the HTTP API. By
// centralizing this logic, every entry point computes layouts with the same
// defaults, the same cache keys and the same renderers.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
//
// Run a growth simulation to completion:
//
//	res, err := pipeline.Simulate(ctx, pipeline.SimulationOptions{Instant: true})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxNodes caps input graphs.
	DefaultMaxNodes = 10_000

	// DefaultOriginX and DefaultOriginY place the root.
	DefaultOriginX = 600.0
	DefaultOriginY = 650.0

	// DefaultWidth is the default raster width in pixels.
	DefaultWidth = 1200

	// DefaultHeight is the default raster height in pixels.
	DefaultHeight = 800

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultBackground is the canvas fill.
	DefaultBackground = "#0a0a1e"
)

// Visualization types.
const (
	VizBranches = "branches"
	VizNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizBranches

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizBranches: true,
	VizNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
//
// The layout parameters are taken as a block: when BranchAngleDeg,
// BranchFactor and MinBranchLength are all zero the defaults are used,
// otherwise the given values are used as-is (a zero angle is legal).
type Options struct {
	// Layout options
	BranchAngleDeg  float64       `json:"branch_angle_deg,omitempty"`
	BranchFactor    float64       `json:"branch_factor,omitempty"`
	MinBranchLength float64       `json:"min_branch_length,omitempty"`
	MaxDepth        int           `json:"max_depth,omitempty"`
	OriginX         float64       `json:"origin_x,omitempty"`
	OriginY         float64       `json:"origin_y,omitempty"`
	Seed            uint64        `json:"seed,omitempty"`
	Bands           []layout.Band `json:"-"`
	MaxNodes        int           `json:"max_nodes,omitempty"`
	Refresh         bool          `json:"refresh,omitempty"`

	// Render options
	VizType  string   `json:"viz_type,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Scheme   int      `json:"scheme,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Background is the #rrggbb fill of raster and branch SVG output.
	Background string `json:"background,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the input graph.
	Graph graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed positions.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Placed     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid viz_type: %q (must be one of: branches, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.BranchAngleDeg == 0 && o.BranchFactor == 0 && o.MinBranchLength == 0 {
		def := graph.ParamsFrom(layout.DefaultOptions())
		o.BranchAngleDeg = def.BranchAngleDeg
		o.BranchFactor = def.BranchFactor
		o.MinBranchLength = def.MinBranchLength
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = layout.DefaultMaxDepth
	}
	if o.OriginX == 0 && o.OriginY == 0 {
		o.OriginX, o.OriginY = DefaultOriginX, DefaultOriginY
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.LayoutOptions().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.IsNodelink() && slices.Contains(o.Formats, FormatPNG) {
		return errors.New(errors.ErrCodeUnsupported, "png output is only available for the branches visualization")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be positive")
	}
	if _, err := palette.ParseHex(o.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid background")
	}
	return nil
}

// ValidateAndSetDefaults applies layout and render defaults and validates both.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizNodelink
}

// LayoutOptions converts the options for the layout engine. Rand is left nil.
func (o *Options) LayoutOptions() layout.Options {
	opts := graph.Params{
		BranchAngleDeg:  o.BranchAngleDeg,
		BranchFactor:    o.BranchFactor,
		MinBranchLength: o.MinBranchLength,
		MaxDepth:        o.MaxDepth,
	}.Options()
	opts.Bands = o.Bands
	return opts
}

// Origin returns the root position.
func (o *Options) Origin() graph.Position {
	return graph.Position{X: o.OriginX, Y: o.OriginY}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		BranchAngle:     o.BranchAngleDeg,
		BranchFactor:    o.BranchFactor,
		MinBranchLength: o.MinBranchLength,
		MaxDepth:        o.MaxDepth,
		OriginX:         o.OriginX,
		OriginY:         o.OriginY,
		Seed:            o.Seed,
	}
	for _, b := range o.Bands {
		k.Bands = append(k.Bands, float64(b.Min), float64(b.Max), b.BaseLength, b.BaseSpacing)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := o.VizType
	if o.Detailed {
		style += "+detailed"
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      style,
		Scheme:     o.Scheme,
		Width:      o.Width,
		Height:     o.Height,
		Background: o.Background,
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("angle=%.1f° factor=%.2f min=%.1f depth=%d seed=%d",
		o.BranchAngleDeg, o.BranchFactor, o.MinBranchLength, o.MaxDepth, o.Seed)
}

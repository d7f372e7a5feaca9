package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/core/rng"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/observability"
	"github.com/matzehuels/arbor/pkg/render/branches"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// DefaultMaxTicks bounds headless runs.
const DefaultMaxTicks = 100_000

// ProgressEvery is the number of ticks between OnProgress calls.
const ProgressEvery = 50

// SimulationOptions configures a headless growth run.
type SimulationOptions struct {
	Rules  growth.Config `json:"-"`
	Seed   uint64        `json:"seed,omitempty"`
	Width  int           `json:"width,omitempty"`
	Height int           `json:"height,omitempty"`
	Mode   string        `json:"mode,omitempty"`

	// Instant grows the whole tree in one step.
	Instant bool `json:"instant,omitempty"`

	// MaxTicks stops the run even if the forest is still growing.
	MaxTicks int `json:"max_ticks,omitempty"`

	// Formats of the final artifacts (svg, png, json).
	Formats    []string `json:"formats,omitempty"`
	Scheme     int      `json:"scheme,omitempty"`
	Background string   `json:"background,omitempty"`

	// FrameEvery emits a frame every N ticks to OnFrame (0 = no frames).
	FrameEvery int                                   `json:"-"`
	OnFrame    func(tick int, img *image.RGBA) error `json:"-"`

	// OnProgress receives the forest statistics every ProgressEvery ticks.
	OnProgress func(growth.Stats) `json:"-"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields.
func (o *SimulationOptions) SetDefaults() {
	if o.Rules == (growth.Config{}) {
		o.Rules = growth.DefaultConfig()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Width == 0 {
		o.Width = growth.DefaultCanvasWidth
	}
	if o.Height == 0 {
		o.Height = growth.DefaultCanvasHeight
	}
	if o.Mode == "" {
		o.Mode = growth.ModeNormal.String()
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the growth rules, mode and formats.
func (o *SimulationOptions) Validate() error {
	if err := o.Rules.Validate(); err != nil {
		return err
	}
	if _, err := growth.ParseMode(o.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid mode")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", o.Width, o.Height)
	}
	if _, err := palette.ParseHex(o.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid background")
	}
	for _, f := range o.Formats {
		if f == FormatDOT {
			return errors.New(errors.ErrCodeUnsupported, "dot output is only available for static layouts")
		}
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SimulationResult is the outcome of a headless run.
type SimulationResult struct {
	Forest    graph.Forest
	Artifacts map[string][]byte
	Frames    int
	Duration  time.Duration
}

// NewSimulation builds a simulation with a planted trunk for opts.
func NewSimulation(opts SimulationOptions) (*growth.Simulation, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mode, _ := growth.ParseMode(opts.Mode)
	sim, err := growth.New(opts.Rules, rng.New(opts.Seed))
	if err != nil {
		return nil, err
	}
	sim.Restart(growth.SeedFor(float64(opts.Width), float64(opts.Height)), mode)
	return sim, nil
}

// Simulate runs a growth simulation until it completes, pauses at the
// branch-end cutoff, reaches MaxTicks or ctx is cancelled.
func Simulate(ctx context.Context, opts SimulationOptions) (*SimulationResult, error) {
	opts.SetDefaults()
	sim, err := NewSimulation(opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Simulation().OnSimulationStart(ctx, "headless", opts.Mode)

	res := &SimulationResult{}
	var canvas *branches.Canvas
	if opts.FrameEvery > 0 && opts.OnFrame != nil {
		canvas = branches.NewCanvas(opts.renderOptions()...)
	}
	emit := func() error {
		if canvas == nil {
			return nil
		}
		img := canvas.Frame(branches.FromSegments(sim.Segments()))
		res.Frames++
		return opts.OnFrame(sim.Ticks(), img)
	}

	if opts.Instant || sim.Mode() == growth.ModeInstant {
		sim.InstantGrow()
	} else {
		for i := 0; i < opts.MaxTicks && sim.Running(); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sim.Tick()
			if opts.OnProgress != nil && sim.Ticks()%ProgressEvery == 0 {
				opts.OnProgress(sim.Stats())
			}
			if canvas != nil && sim.Ticks()%opts.FrameEvery == 0 {
				if err := emit(); err != nil {
					return nil, fmt.Errorf("frame %d: %w", res.Frames, err)
				}
			}
		}
	}
	if err := emit(); err != nil {
		return nil, fmt.Errorf("final frame: %w", err)
	}

	res.Forest = graph.ForestOf(sim)
	res.Forest.Width, res.Forest.Height = float64(opts.Width), float64(opts.Height)
	res.Duration = time.Since(start)

	st := res.Forest.Stats
	observability.Simulation().OnTicks(ctx, "headless", st.Ticks, st.Branches, res.Duration)
	if st.Complete || st.Paused {
		observability.Simulation().OnSimulationComplete(ctx, "headless", st.Branches, st.LeafEnds)
	}
	opts.Logger.Info("simulation finished",
		"ticks", st.Ticks,
		"branches", st.Branches,
		"leaf_ends", st.LeafEnds,
		"complete", st.Complete,
		"paused", st.Paused,
		"duration", res.Duration)

	res.Artifacts, err = RenderForest(res.Forest, opts)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RenderForest renders a forest snapshot in opts.Formats.
func RenderForest(f graph.Forest, opts SimulationOptions) (map[string][]byte, error) {
	opts.SetDefaults()
	lines := branches.FromSegments(f.Segments)
	ropts := opts.renderOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = graph.MarshalForest(f)
		case FormatSVG:
			data = branches.RenderSVG(lines, ropts...)
		case FormatPNG:
			data, err = branches.RenderPNG(lines, ropts...)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported forest format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func (o *SimulationOptions) renderOptions() []branches.Option {
	bg, _ := palette.ParseHex(o.Background)
	return []branches.Option{
		branches.WithSize(o.Width, o.Height),
		branches.WithScheme(o.Scheme),
		branches.WithBackground(bg),
	}
}

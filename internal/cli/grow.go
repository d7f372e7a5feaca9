package cli

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/pipeline"
)

// growOpts holds the command-line flags for the grow command.
type growOpts struct {
	mode       string
	scheme     string
	seed       uint64
	width      float64
	height     float64
	out        string
	framesDir  string
	frameEvery int
	maxTicks   int
	headless   bool
}

// growCommand creates the grow command that animates a growing tree.
func (c *CLI) growCommand() *cobra.Command {
	def := config.Default().Growth
	opts := growOpts{mode: growth.ModeNormal.String(), frameEvery: 5}

	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a fractal tree in the terminal",
		Long: `Grow a fractal tree in the terminal.

Each branch grows a little on every growth tick and splits into two or three
shorter branches once it reaches its target length. Growth pauses when the
number of branch ends reaches the configured cutoff.

Keys:
  n      new tree
  f      new tree, growing on every 2nd tick
  i      new tree, grown instantly
  c      next colour scheme
  space  next colour scheme (fast mode)
  q      quit

With --out or --frames, or when stdout is not a terminal, the simulation runs
headless until it completes and writes the result instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sim, err := opts.simulationOptions(cmd, cfg)
			if err != nil {
				return err
			}
			sim.Logger = c.Logger

			headless := opts.headless || opts.out != "" || opts.framesDir != "" ||
				!isatty.IsTerminal(os.Stdout.Fd())
			if headless {
				return c.runGrowHeadless(cmd.Context(), sim, opts)
			}
			interval, err := cfg.Growth.Interval()
			if err != nil {
				return err
			}
			return c.runGrowTUI(cmd.Context(), sim, interval)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", opts.mode, "growth mode: normal, fast, instant")
	cmd.Flags().StringVar(&opts.scheme, "scheme", "", "colour scheme name or index")
	cmd.Flags().Uint64Var(&opts.seed, "seed", def.Seed, "random seed")
	cmd.Flags().Float64Var(&opts.width, "width", def.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", def.Height, "canvas height")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the grown tree to a .svg, .png or .json file")
	cmd.Flags().StringVar(&opts.framesDir, "frames", "", "write PNG frames to this directory")
	cmd.Flags().IntVar(&opts.frameEvery, "frame-every", opts.frameEvery, "ticks between frames")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", pipeline.DefaultMaxTicks, "stop after this many ticks")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "never start the interactive view")

	return cmd
}

// simulationOptions merges the flags over cfg.
func (o growOpts) simulationOptions(cmd *cobra.Command, cfg config.Config) (pipeline.SimulationOptions, error) {
	changed := cmd.Flags().Changed
	g := cfg.Growth
	scheme, err := resolveScheme(o.scheme, cfg.Render.Scheme)
	if err != nil {
		return pipeline.SimulationOptions{}, err
	}
	sim := pipeline.SimulationOptions{
		Rules:      cfg.GrowthRules(),
		Seed:       pick(changed("seed"), o.seed, g.Seed),
		Width:      int(pick(changed("width"), o.width, g.Width)),
		Height:     int(pick(changed("height"), o.height, g.Height)),
		Mode:       o.mode,
		MaxTicks:   o.maxTicks,
		Scheme:     scheme,
		Background: cfg.Render.Background,
	}
	if o.mode == growth.ModeInstant.String() {
		sim.Instant = true
	}
	if o.out != "" {
		sim.Formats = []string{strings.TrimPrefix(filepath.Ext(o.out), ".")}
	}
	sim.SetDefaults()
	if err := sim.Validate(); err != nil {
		return pipeline.SimulationOptions{}, err
	}
	return sim, nil
}

// runGrowHeadless runs the simulation to the end and writes its outputs.
func (c *CLI) runGrowHeadless(ctx context.Context, sim pipeline.SimulationOptions, o growOpts) error {
	logger := loggerFromContext(ctx)

	if o.framesDir != "" {
		if err := os.MkdirAll(o.framesDir, 0o755); err != nil {
			return fmt.Errorf("create frames dir: %w", err)
		}
		sim.FrameEvery = o.frameEvery
		sim.OnFrame = func(tick int, img *image.RGBA) error {
			return writePNG(filepath.Join(o.framesDir, fmt.Sprintf("frame_%06d.png", tick)), img)
		}
	}

	spin := newSpinner(ctx, os.Stderr, "Growing...")
	sim.OnProgress = func(st growth.Stats) {
		spin.Update(growthStatus(st))
	}
	spin.Start()
	prog := newProgress(logger)

	res, err := pipeline.Simulate(ctx, sim)
	if err != nil {
		spin.StopWithError("Simulation failed", err)
		return err
	}
	spin.Stop()
	st := res.Forest.Stats
	prog.done(fmt.Sprintf("Grew %d branches in %d ticks", st.Branches, st.Ticks))

	printSuccess("Tree grown")
	if o.out != "" {
		if err := os.WriteFile(o.out, res.Artifacts[sim.Formats[0]], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", o.out, err)
		}
		printFile(o.out)
	}
	if o.framesDir != "" {
		printFile(fmt.Sprintf("%s (%d frames)", o.framesDir, res.Frames))
	}
	printKeyValue("Branches", fmt.Sprint(st.Branches))
	printKeyValue("Leaf ends", fmt.Sprint(st.LeafEnds))
	printKeyValue("Max depth", fmt.Sprint(st.MaxDepth))
	printKeyValue("State", stateLabel(st))
	if !st.Complete && !st.Paused {
		printWarning("Stopped after %d ticks before the tree finished", st.Ticks)
	}
	return nil
}

// runGrowTUI starts the interactive view.
func (c *CLI) runGrowTUI(ctx context.Context, sim pipeline.SimulationOptions, interval time.Duration) error {
	model, err := newGrowModel(sim, interval)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(growModel); ok {
		st := m.sim.Stats()
		c.Logger.Info("simulation closed", "ticks", st.Ticks, "branches", st.Branches, "state", stateLabel(st))
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// growthStatus is the spinner status of a running simulation.
func growthStatus(st growth.Stats) string {
	return fmt.Sprintf("tick %d · %d branches · %d ends", st.Ticks, st.Branches, st.LeafEnds)
}

func stateLabel(st growth.Stats) string {
	switch {
	case st.Complete:
		return "complete"
	case st.Paused:
		return "paused at branch-end cutoff"
	default:
		return "growing"
	}
}

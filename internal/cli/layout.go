package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/pipeline"
)

// layoutCommand creates the layout command for placing a tree.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		refresh  bool
		save     bool
		maxNodes int
		lf       layoutFlags
		rf       renderFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Compute a branch layout for a tree and render it",
		Long: `Compute a branch layout for a tree and render it.

The input is a graph JSON file ({"nodes": [...], "edges": [...]}), a links
file ({"nodes": {id: {name}}, "links": [{from, to}]}) or a plain edge list
with one "parent child" pair per line. The root is the first node with no
parent; nodes not reachable from it are left out.

Results are cached, so re-running with the same input and parameters is
instant. Use --format json to keep the layout for 'arbor render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.Options{MaxNodes: maxNodes, Refresh: refresh, Logger: c.Logger}
			lf.apply(cmd, cfg, &opts)
			if err := rf.apply(cmd, cfg, &opts); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, args[0], opts, output, noCache, save)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&save, "save", false, "store the layout in the configured store")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", pipeline.DefaultMaxNodes, "reject graphs with more nodes")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// runLayout loads the input, computes the layout, and writes the artifacts.
func (c *CLI) runLayout(ctx context.Context, cfg config.Config, input string, opts pipeline.Options, output string, noCache, save bool) error {
	logger := loggerFromContext(ctx)

	g, err := pipeline.ReadInputFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	logger.Debugf("Loaded %s: %d nodes, %d edges", input, len(g.Nodes), len(g.Edges))

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, "Computing layout...")
	spin.Start()
	spin.Update(fmt.Sprintf("%d nodes", g.DistinctNodes()))

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spin.StopWithError("Layout failed", err)
		return err
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if save {
		if cfg.Store.MongoURI == "" {
			return fmt.Errorf("--save needs store.mongo_uri in the config file")
		}
		l := result.Layout
		l.ID = uuid.NewString()
		st, err := newStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close(context.WithoutCancel(ctx))
		if err := st.SaveLayout(ctx, l); err != nil {
			return err
		}
		logger.Infof("Saved layout %s", l.ID)
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.LayoutHit,
		nodes:     result.Stats.Placed,
		edges:     len(result.Layout.Edges),
	}); err != nil {
		return err
	}

	if slices.Contains(opts.Formats, pipeline.FormatJSON) {
		path := basePath(output, input) + ".layout.json"
		if len(opts.Formats) == 1 && output != "" {
			path = output
		}
		printNextStep("Render again", "arbor render "+path)
	}

	if omitted := result.Stats.NodeCount - result.Stats.Placed; omitted > 0 {
		printWarning("%d node(s) not reachable from root %q were left out", omitted, result.Layout.Root)
	}
	return nil
}

package pipeline

import (
	"time"

	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/core/rng"
	"github.com/matzehuels/arbor/pkg/graph"
)

// GenerateLayout computes a layout for g without caching. The random
// source is seeded from opts.Seed, so equal inputs give equal layouts.
// Options are expected to be validated.
func GenerateLayout(g graph.Graph, opts Options) (graph.Layout, error) {
	lo := opts.LayoutOptions()
	lo.Rand = rng.New(opts.Seed)

	res, err := layout.Compute(g.IDs(), g.TreeEdges(), opts.Origin(), lo)
	if err != nil {
		return graph.Layout{}, err
	}
	l := graph.NewLayout(g, res, opts.Origin(), lo, opts.Seed)
	l.CreatedAt = time.Now().UTC()
	return l, nil
}

package layout

import (
	"math"

	"github.com/matzehuels/arbor/pkg/core/rng"
	"github.com/matzehuels/arbor/pkg/core/tree"
)

// Position is a point in plane coordinates. Y grows downwards, so the
// initial angle −π/2 points "up".
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p moved by length along angle.
func (p Position) Add(angle, length float64) Position {
	return Position{
		X: p.X + length*math.Cos(angle),
		Y: p.Y + length*math.Sin(angle),
	}
}

// RootAngle is the direction of the first branch level.
const RootAngle = -math.Pi / 2

// Result holds a computed layout plus the values used to derive it.
type Result struct {
	// Root is the node placed at the origin. Empty for an empty input.
	Root string

	// Roots lists every node without an incoming edge. Only Root is laid out.
	Roots []string

	// Positions holds one entry per placed node, Root included.
	Positions map[string]Position

	// Depths is the recursion level each node was placed at (Root = 1).
	Depths map[string]int

	BaseLength  float64
	BaseSpacing float64
}

// Layout returns final positions for every node reachable from the chosen
// root. See [Compute] for details.
func Layout(nodes []string, edges []tree.Edge, origin Position, opts Options) (map[string]Position, error) {
	r, err := Compute(nodes, edges, origin, opts)
	if err != nil {
		return nil, err
	}
	return r.Positions, nil
}

// Compute builds the tree, selects the base length from the node count and
// places every reachable node. The returned maps are fresh per call.
//
// An empty node set yields empty maps and no error. Invalid options are
// rejected before anything else.
func Compute(nodes []string, edges []tree.Edge, origin Position, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		Positions: map[string]Position{},
		Depths:    map[string]int{},
	}
	t := tree.Build(nodes, edges)
	if t.Empty() {
		return res, nil
	}

	res.Root, res.Roots = t.Root, t.Roots
	res.BaseLength, res.BaseSpacing = opts.Bands.Select(len(nodes))
	res.Positions[t.Root] = origin
	res.Depths[t.Root] = 1

	p := placer{
		tree:   t,
		opts:   opts,
		rand:   rng.Or(opts.Rand),
		result: &res,
	}
	p.place(t.Root, origin, RootAngle, res.BaseLength, 1)
	return res, nil
}

type placer struct {
	tree   *tree.Tree
	opts   Options
	rand   rng.Source
	result *Result
}

func (p *placer) place(id string, at Position, angle, length float64, depth int) {
	if depth >= p.opts.MaxDepth || length < p.opts.MinBranchLength {
		return
	}
	children := p.tree.Children(id)
	k := len(children)
	for i, child := range children {
		// Already placed: a repeated child or a cycle back up the tree.
		if _, ok := p.result.Positions[child]; ok {
			continue
		}
		childAngle := angle + Offset(i, k, p.opts.BranchAngle)
		end := at.Add(childAngle, length)
		p.result.Positions[child] = end
		p.result.Depths[child] = depth + 1

		next := length * rng.Uniform(p.rand, lengthDecayLow, p.opts.BranchFactor)
		p.place(child, end, childAngle, next, depth+1)
	}
}

// Offset returns the angular offset of child i among k siblings: 0 for a
// single child, otherwise a linear spread over [−branchAngle, +branchAngle].
func Offset(i, k int, branchAngle float64) float64 {
	if k <= 1 {
		return 0
	}
	spread := 2 * branchAngle
	return float64(i)/float64(k-1)*spread - spread/2
}

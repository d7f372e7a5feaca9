package growth

import (
	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/core/rng"
)

// lengthDecayLow is the lower bound of the child length decay draw.
const lengthDecayLow = 0.8

// Branch is one segment of a growing tree. It exclusively owns its
// children; there are no back references.
type Branch struct {
	Start        layout.Position
	Angle        float64
	Length       float64
	TargetLength float64
	Depth        int
	Children     []*Branch

	finished bool
	static   bool
}

// NewBranch returns an ungrown branch.
func NewBranch(start layout.Position, angle, targetLength float64, depth int) *Branch {
	return &Branch{
		Start:        start,
		Angle:        angle,
		TargetLength: targetLength,
		Depth:        depth,
	}
}

// Finished reports whether the branch reached its target and spawned.
func (b *Branch) Finished() bool { return b.finished }

// Static reports whether the branch and its whole subtree are done.
func (b *Branch) Static() bool { return b.static }

// Growing reports whether the branch is still short of its target.
func (b *Branch) Growing() bool { return b.Length < b.TargetLength }

// End returns the fully-grown end point. It uses the target length, so it
// is where children start, not where a growing branch currently stops.
func (b *Branch) End() layout.Position {
	return b.Start.Add(b.Angle, b.TargetLength)
}

// Tip returns the current end point of a possibly still growing branch.
func (b *Branch) Tip() layout.Position {
	return b.Start.Add(b.Angle, b.Length)
}

// CountLeafEnds returns 1 for a branch without children, otherwise the sum
// over its children.
func (b *Branch) CountLeafEnds() int {
	if len(b.Children) == 0 {
		return 1
	}
	n := 0
	for _, c := range b.Children {
		n += c.CountLeafEnds()
	}
	return n
}

// Walk visits b and every descendant depth-first, parents before children.
// Returning false from fn skips the subtree below that branch.
func (b *Branch) Walk(fn func(*Branch) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Advance moves the branch forward by one tick.
//
// On an active tick a growing branch lengthens by the growth speed, clamped
// to its target, and a branch that has reached its target spawns children
// once. A finished branch then advances every child, including ones spawned
// during this call. Static branches are left alone.
func (b *Branch) Advance(g *Grower, active bool) {
	if b.static {
		return
	}
	if active {
		if b.Growing() {
			b.Length = min(b.Length+g.cfg.GrowthSpeed, b.TargetLength)
		}
		if !b.Growing() && !b.finished {
			g.spawn(b)
		}
	}
	if b.finished {
		for _, c := range b.Children {
			c.Advance(g, active)
		}
	}
	b.settle()
}

// InstantGrow grows the branch and every descendant to completion in one
// call, using the same spawn rules as Advance. The whole subtree is static
// afterwards.
func (b *Branch) InstantGrow(g *Grower) {
	if b.static {
		return
	}
	b.Length = b.TargetLength
	if !b.finished {
		g.spawn(b)
	}
	for _, c := range b.Children {
		c.InstantGrow(g)
	}
	b.settle()
}

func (b *Branch) settle() {
	if !b.finished {
		return
	}
	for _, c := range b.Children {
		if !c.static {
			return
		}
	}
	b.static = true
}

// Grower applies a Config and a random source to branches.
type Grower struct {
	cfg  Config
	rand rng.Source
}

// NewGrower validates cfg. A nil src uses the process-wide generator.
func NewGrower(cfg Config, src rng.Source) (*Grower, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Grower{cfg: cfg, rand: rng.Or(src)}, nil
}

// Config returns the rules in use.
func (g *Grower) Config() Config { return g.cfg }

// spawn finishes b and creates its children. Branches at the depth limit or
// not longer than the minimum finish as leaves. Otherwise two or three
// candidates are drawn; first-level candidates continue straight, deeper
// ones deviate by up to ±BranchAngle, and candidates shorter than the
// minimum are dropped.
func (g *Grower) spawn(b *Branch) {
	b.finished = true
	if b.Depth >= g.cfg.MaxDepth || b.TargetLength <= g.cfg.MinBranchLength {
		return
	}

	end := b.End()
	n := 2 + g.rand.IntN(2)
	for range n {
		delta := 0.0
		if b.Depth != 1 {
			delta = rng.Uniform(g.rand, -g.cfg.BranchAngle, g.cfg.BranchAngle)
		}
		length := b.TargetLength * rng.Uniform(g.rand, lengthDecayLow, g.cfg.BranchFactor)
		if length < g.cfg.MinBranchLength {
			continue
		}
		b.Children = append(b.Children, NewBranch(end, b.Angle+delta, length, b.Depth+1))
	}
}

package branches

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/graph"
)

// Line is one stroke.
type Line struct {
	From, To graph.Position
	Depth    int
	Static   bool
}

// FromSegments converts forest segments, drawing each up to its tip.
func FromSegments(segs []growth.Segment) []Line {
	out := make([]Line, len(segs))
	for i, s := range segs {
		out[i] = Line{From: s.Start, To: s.Tip, Depth: s.Depth, Static: s.Static}
	}
	return out
}

// FromLayout converts layout edges into lines coloured by the child depth.
// The edge list is sorted so output is deterministic.
func FromLayout(l graph.Layout) []Line {
	edges := slices.Clone(l.Edges)
	slices.SortFunc(edges, func(a, b graph.Edge) int {
		return cmp.Or(strings.Compare(a.From, b.From), strings.Compare(a.To, b.To))
	})
	out := make([]Line, 0, len(edges))
	for _, e := range edges {
		from, ok1 := l.Positions[e.From]
		to, ok2 := l.Positions[e.To]
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Line{From: from, To: to, Depth: max(l.Depths[e.To]-1, 1), Static: true})
	}
	return out
}

// bounds returns the bounding box of all endpoints.
func bounds(lines []Line) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		for _, p := range []graph.Position{l.From, l.To} {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	return
}

// transform maps plane coordinates to canvas coordinates.
type transform struct {
	scale, dx, dy float64
}

func (t transform) apply(p graph.Position) (float64, float64) {
	return p.X*t.scale + t.dx, p.Y*t.scale + t.dy
}

// fit scales lines uniformly into a w × h canvas with padding on each side.
func fit(lines []Line, w, h int, padding float64) transform {
	if len(lines) == 0 {
		return transform{scale: 1}
	}
	minX, minY, maxX, maxY := bounds(lines)
	bw, bh := maxX-minX, maxY-minY
	aw, ah := float64(w)-2*padding, float64(h)-2*padding
	scale := 1.0
	if bw > 0 || bh > 0 {
		scale = math.Inf(1)
		if bw > 0 {
			scale = aw / bw
		}
		if bh > 0 {
			scale = math.Min(scale, ah/bh)
		}
	}
	return transform{
		scale: scale,
		dx:    padding + (aw-bw*scale)/2 - minX*scale,
		dy:    padding + (ah-bh*scale)/2 - minY*scale,
	}
}

package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/errors"
)

// Position is re-exported for callers that only deal with wire types.
type Position = layout.Position

// =============================================================================
// Layout - Static Layout Serialization
// =============================================================================

// Params records the layout parameters in file-friendly units.
type Params struct {
	BranchAngleDeg  float64 `json:"branch_angle_deg" bson:"branch_angle_deg"`
	BranchFactor    float64 `json:"branch_factor" bson:"branch_factor"`
	MinBranchLength float64 `json:"min_branch_length" bson:"min_branch_length"`
	MaxDepth        int     `json:"max_depth" bson:"max_depth"`
}

// ParamsFrom captures layout options.
func ParamsFrom(o layout.Options) Params {
	return Params{
		BranchAngleDeg:  o.BranchAngle * 180 / math.Pi,
		BranchFactor:    o.BranchFactor,
		MinBranchLength: o.MinBranchLength,
		MaxDepth:        o.MaxDepth,
	}
}

// Options converts the parameters back to layout options.
func (p Params) Options() layout.Options {
	return layout.Options{
		BranchAngle:     p.BranchAngleDeg * math.Pi / 180,
		BranchFactor:    p.BranchFactor,
		MinBranchLength: p.MinBranchLength,
		MaxDepth:        p.MaxDepth,
	}
}

// Layout is the serialized result of a static layout.
type Layout struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	GraphHash string    `json:"graph_hash,omitempty" bson:"graph_hash,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`

	Root  string   `json:"root" bson:"root"`
	Roots []string `json:"roots,omitempty" bson:"roots,omitempty"` // All parentless nodes; only Root is placed

	Origin      Position `json:"origin" bson:"origin"`
	BaseLength  float64  `json:"base_length" bson:"base_length"`
	BaseSpacing float64  `json:"base_spacing" bson:"base_spacing"` // Recorded, not used by placement
	Params      Params   `json:"params" bson:"params"`
	Seed        uint64   `json:"seed,omitempty" bson:"seed,omitempty"`

	Positions map[string]Position `json:"positions" bson:"positions"`
	Depths    map[string]int      `json:"depths,omitempty" bson:"depths,omitempty"`
	Labels    map[string]string   `json:"labels,omitempty" bson:"labels,omitempty"`
	Edges     []Edge              `json:"edges,omitempty" bson:"edges,omitempty"`
}

// NewLayout assembles a Layout from a computed result. Only edges between
// placed nodes are kept, so renderers can draw them directly.
func NewLayout(g Graph, res layout.Result, origin Position, opts layout.Options, seed uint64) Layout {
	l := Layout{
		Root:        res.Root,
		Roots:       res.Roots,
		Origin:      origin,
		BaseLength:  res.BaseLength,
		BaseSpacing: res.BaseSpacing,
		Params:      ParamsFrom(opts),
		Seed:        seed,
		Positions:   res.Positions,
		Depths:      res.Depths,
	}
	for _, n := range g.Nodes {
		if _, ok := res.Positions[n.ID]; ok && n.Label != "" {
			if l.Labels == nil {
				l.Labels = make(map[string]string)
			}
			l.Labels[n.ID] = n.Label
		}
	}
	seen := make(map[Edge]bool)
	for _, e := range g.Edges {
		_, okFrom := res.Positions[e.From]
		_, okTo := res.Positions[e.To]
		if okFrom && okTo && !seen[e] {
			seen[e] = true
			l.Edges = append(l.Edges, e)
		}
	}
	return l
}

// Label returns the display label of a placed node.
func (l *Layout) Label(id string) string {
	if s, ok := l.Labels[id]; ok {
		return s
	}
	return id
}

// Bounds returns the bounding box of all positions. ok is false when empty.
func (l *Layout) Bounds() (minP, maxP Position, ok bool) {
	for _, p := range l.Positions {
		if !ok {
			minP, maxP, ok = p, p, true
			continue
		}
		minP = Position{X: math.Min(minP.X, p.X), Y: math.Min(minP.Y, p.Y)}
		maxP = Position{X: math.Max(maxP.X, p.X), Y: math.Max(maxP.Y, p.Y)}
	}
	return minP, maxP, ok
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout with nodes must name its root among the positions.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if len(l.Positions) > 0 {
		if _, ok := l.Positions[l.Root]; !ok {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout root %q has no position", l.Root)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// =============================================================================
// Forest - Growth Simulation Snapshot
// =============================================================================

// Forest is a renderer-ready snapshot of a growth simulation.
type Forest struct {
	ID       string           `json:"id,omitempty" bson:"_id,omitempty"`
	Mode     string           `json:"mode" bson:"mode"`
	Width    float64          `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64          `json:"height,omitempty" bson:"height,omitempty"`
	Stats    growth.Stats     `json:"stats" bson:"stats"`
	Segments []growth.Segment `json:"segments" bson:"segments"`
}

// ForestOf snapshots sim.
func ForestOf(sim *growth.Simulation) Forest {
	st := sim.Stats()
	return Forest{
		Mode:     st.Mode.String(),
		Stats:    st,
		Segments: sim.Segments(),
	}
}

// MarshalForest serializes a Forest to JSON bytes.
func MarshalForest(f Forest) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

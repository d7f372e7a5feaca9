package graph

import (
	"github.com/matzehuels/arbor/pkg/core/tree"
	"github.com/matzehuels/arbor/pkg/errors"
)

// =============================================================================
// Graph - Input Tree Serialization
// =============================================================================

// Graph is the canonical serialization format for input trees.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a tree node. Only ID is used for layout; the rest is carried
// through untouched.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed parent → child link.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// IDs returns node ids in input order.
func (g Graph) IDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// DistinctNodes counts node ids, ignoring repeats.
func (g Graph) DistinctNodes() int {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		seen[n.ID] = struct{}{}
	}
	return len(seen)
}

// TreeEdges converts the edges for the layout engine.
func (g Graph) TreeEdges() []tree.Edge {
	edges := make([]tree.Edge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = tree.Edge{From: e.From, To: e.To}
	}
	return edges
}

// Label returns the display label of id, or id itself when unknown.
func (g Graph) Label(id string) string {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return g.Nodes[i].DisplayLabel()
		}
	}
	return id
}

// Validate checks node ids and the node count limit (0 = unlimited).
// Edges referencing unknown ids are valid; the layout drops them.
func (g Graph) Validate(maxNodes int) error {
	if err := errors.ValidateGraphSize(len(g.Nodes), maxNodes); err != nil {
		return err
	}
	for _, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
	}
	return nil
}

// Package tree turns an unordered node set and a directed edge list into a
// rooted adjacency structure.
//
// The structure is deliberately forgiving: edges that reference unknown nodes
// are dropped, repeated (parent, child) edges are stored once, and a graph
// where every node has an incoming edge still gets a root (the first node).
//
// # Multiple roots
//
// When more than one node has no incoming edge, [Tree.Root] is the first of
// them in input order and the others are reported in [Tree.Roots]. Layout
// engines start from [Tree.Root] only, so the remaining roots and everything
// below them are absent from their output.
package tree

// Edge is a directed parent → child link.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Tree is a rooted adjacency structure built by [Build].
type Tree struct {
	// Root is the node layouts start from. Empty only when the tree is empty.
	Root string

	// Roots lists every node without an incoming edge, in input order.
	// It is empty when the fallback root was used.
	Roots []string

	nodes    []string
	children map[string][]string
}

// Build constructs a Tree from nodes and edges.
//
// Every node gets an entry, possibly with no children. Children are kept in
// edge order. Duplicate node ids in the input are ignored after their first
// occurrence.
func Build(nodes []string, edges []Edge) *Tree {
	t := &Tree{
		nodes:    make([]string, 0, len(nodes)),
		children: make(map[string][]string, len(nodes)),
	}
	for _, id := range nodes {
		if _, ok := t.children[id]; ok {
			continue
		}
		t.children[id] = []string{}
		t.nodes = append(t.nodes, id)
	}

	seen := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		if !t.Has(e.From) || !t.Has(e.To) || seen[e] {
			continue
		}
		seen[e] = true
		t.children[e.From] = append(t.children[e.From], e.To)
	}

	t.Roots = findRoots(t.nodes, edges)
	switch {
	case len(t.Roots) > 0:
		t.Root = t.Roots[0]
	case len(t.nodes) > 0:
		t.Root = t.nodes[0]
	}
	return t
}

// findRoots returns the nodes that never appear as an edge target.
// Targets are collected from all edges, including ones dropped by Build.
func findRoots(nodes []string, edges []Edge) []string {
	targets := make(map[string]bool, len(edges))
	for _, e := range edges {
		targets[e.To] = true
	}
	var roots []string
	for _, id := range nodes {
		if !targets[id] {
			roots = append(roots, id)
		}
	}
	return roots
}

// Has reports whether id is a node of the tree.
func (t *Tree) Has(id string) bool {
	_, ok := t.children[id]
	return ok
}

// Children returns the ordered children of id, or nil for unknown ids.
// The returned slice must not be modified.
func (t *Tree) Children(id string) []string {
	return t.children[id]
}

// Nodes returns node ids in input order.
func (t *Tree) Nodes() []string {
	return append([]string(nil), t.nodes...)
}

// Len returns the number of distinct nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Empty reports whether the tree has no nodes.
func (t *Tree) Empty() bool { return len(t.nodes) == 0 }

// Reachable returns every node reachable from Root (Root included) in
// depth-first, child order.
func (t *Tree) Reachable() []string {
	if t.Empty() {
		return nil
	}
	visited := map[string]bool{t.Root: true}
	order := []string{t.Root}
	var walk func(string)
	walk = func(id string) {
		for _, c := range t.children[id] {
			if visited[c] {
				continue
			}
			visited[c] = true
			order = append(order, c)
			walk(c)
		}
	}
	walk(t.Root)
	return order
}

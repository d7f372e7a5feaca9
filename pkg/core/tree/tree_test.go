package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name         string
		nodes        []string
		edges        []Edge
		wantRoot     string
		wantRoots    []string
		wantChildren map[string][]string
	}{
		{
			name:         "Empty",
			wantRoot:     "",
			wantChildren: map[string][]string{},
		},
		{
			name:         "SingleNode",
			nodes:        []string{"a"},
			wantRoot:     "a",
			wantRoots:    []string{"a"},
			wantChildren: map[string][]string{"a": {}},
		},
		{
			name:      "EdgeOrderPreserved",
			nodes:     []string{"a", "b", "c", "d"},
			edges:     []Edge{{"a", "c"}, {"a", "b"}, {"b", "d"}},
			wantRoot:  "a",
			wantRoots: []string{"a"},
			wantChildren: map[string][]string{
				"a": {"c", "b"},
				"b": {"d"},
				"c": {},
				"d": {},
			},
		},
		{
			name:      "UnknownEndpointsDropped",
			nodes:     []string{"a", "b"},
			edges:     []Edge{{"a", "b"}, {"a", "ghost"}, {"ghost", "b"}},
			wantRoot:  "a",
			wantRoots: []string{"a"},
			wantChildren: map[string][]string{
				"a": {"b"},
				"b": {},
			},
		},
		{
			name:      "DuplicateEdgesStoredOnce",
			nodes:     []string{"a", "b"},
			edges:     []Edge{{"a", "b"}, {"a", "b"}},
			wantRoot:  "a",
			wantRoots: []string{"a"},
			wantChildren: map[string][]string{
				"a": {"b"},
				"b": {},
			},
		},
		{
			name:  "CycleFallsBackToFirstNode",
			nodes: []string{"x", "y", "z"},
			edges: []Edge{{"x", "y"}, {"y", "z"}, {"z", "x"}},
			// No node is free of incoming edges.
			wantRoot: "x",
			wantChildren: map[string][]string{
				"x": {"y"},
				"y": {"z"},
				"z": {"x"},
			},
		},
		{
			name:      "MultipleRootsFirstWins",
			nodes:     []string{"b", "a", "c"},
			edges:     []Edge{{"a", "c"}},
			wantRoot:  "b",
			wantRoots: []string{"b", "a"},
			wantChildren: map[string][]string{
				"a": {"c"},
				"b": {},
				"c": {},
			},
		},
		{
			name:         "DuplicateNodesIgnored",
			nodes:        []string{"a", "a"},
			wantRoot:     "a",
			wantRoots:    []string{"a"},
			wantChildren: map[string][]string{"a": {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Build(tt.nodes, tt.edges)

			if tr.Root != tt.wantRoot {
				t.Errorf("Root = %q, want %q", tr.Root, tt.wantRoot)
			}
			if diff := cmp.Diff(tt.wantRoots, tr.Roots); diff != "" {
				t.Errorf("Roots mismatch (-want +got):\n%s", diff)
			}

			got := make(map[string][]string, tr.Len())
			for _, id := range tr.Nodes() {
				got[id] = tr.Children(id)
			}
			if diff := cmp.Diff(tt.wantChildren, got); diff != "" {
				t.Errorf("children mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReachable(t *testing.T) {
	tr := Build(
		[]string{"r", "a", "b", "orphan", "leaf"},
		[]Edge{{"r", "a"}, {"r", "b"}, {"a", "leaf"}, {"b", "leaf"}, {"orphan", "b"}},
	)

	want := []string{"r", "a", "leaf", "b"}
	if diff := cmp.Diff(want, tr.Reachable()); diff != "" {
		t.Errorf("Reachable mismatch (-want +got):\n%s", diff)
	}
	if !tr.Has("orphan") {
		t.Error("orphan should still be a node")
	}
	if tr.Children("missing") != nil {
		t.Error("Children of unknown id should be nil")
	}
}

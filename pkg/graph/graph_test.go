package graph

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/core/rng"
	"github.com/matzehuels/arbor/pkg/errors"
)

func sample() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "root", Label: "Root"},
			{ID: "a", Meta: map[string]any{"kind": "leaf"}},
			{ID: "b"},
			{ID: "orphan"},
		},
		Edges: []Edge{
			{From: "root", To: "a"},
			{From: "root", To: "b"},
			{From: "root", To: "a"},
		},
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := sample()
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	got, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCode errors.Code
		want     int
	}{
		{name: "Valid", input: `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"}]}`, want: 2},
		{name: "Empty", input: `{"nodes":[],"edges":[]}`, want: 0},
		{name: "UnknownEdgeEndpointsAllowed", input: `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"zz"}]}`, want: 1},
		{name: "Malformed", input: `{"nodes":`, wantErr: true, wantCode: errors.ErrCodeInvalidGraph},
		{name: "EmptyID", input: `{"nodes":[{"id":""}]}`, wantErr: true, wantCode: errors.ErrCodeInvalidNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if code := errors.GetCode(err); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if len(g.Nodes) != tt.want {
				t.Errorf("nodes = %d, want %d", len(g.Nodes), tt.want)
			}
		})
	}
}

func TestGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := WriteGraphFile(sample(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if got := g.Label("root"); got != "Root" {
		t.Errorf("Label(root) = %q, want Root", got)
	}
	if got := g.Label("a"); got != "a" {
		t.Errorf("Label(a) = %q, want a", got)
	}
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteGraphIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(Graph{Nodes: []Node{{ID: "x"}}}, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"nodes\"") {
		t.Errorf("expected indented output, got %q", buf.String())
	}
}

func TestTreeEdges(t *testing.T) {
	g := sample()
	edges := g.TreeEdges()
	if len(edges) != len(g.Edges) {
		t.Fatalf("len = %d, want %d", len(edges), len(g.Edges))
	}
	if edges[1].From != "root" || edges[1].To != "b" {
		t.Errorf("edges[1] = %+v", edges[1])
	}
	if diff := cmp.Diff([]string{"root", "a", "b", "orphan"}, g.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctNodes(t *testing.T) {
	g := sample()
	if got := g.DistinctNodes(); got != 4 {
		t.Errorf("DistinctNodes() = %d, want 4", got)
	}
	g.Nodes = append(g.Nodes, Node{ID: "a"}, Node{ID: "root"})
	if got := g.DistinctNodes(); got != 4 {
		t.Errorf("DistinctNodes() with repeats = %d, want 4", got)
	}
}

func TestGraphValidateLimit(t *testing.T) {
	g := sample()
	if err := g.Validate(2); err == nil {
		t.Error("expected size error")
	}
	if err := g.Validate(0); err != nil {
		t.Errorf("Validate(0) = %v", err)
	}
}

func computeSample(t *testing.T) (Graph, Layout) {
	t.Helper()
	g := sample()
	opts := layout.DefaultOptions()
	opts.Rand = rng.New(7)
	origin := Position{X: 600, Y: 650}
	res, err := layout.Compute(g.IDs(), g.TreeEdges(), origin, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return g, NewLayout(g, res, origin, opts, 7)
}

func TestNewLayout(t *testing.T) {
	_, l := computeSample(t)

	if l.Root != "root" {
		t.Errorf("Root = %q, want root", l.Root)
	}
	if len(l.Positions) != 3 {
		t.Errorf("positions = %d, want 3", len(l.Positions))
	}
	if _, ok := l.Positions["orphan"]; ok {
		t.Error("orphan should not be placed")
	}
	if len(l.Edges) != 2 {
		t.Errorf("edges = %d, want 2 (duplicates dropped)", len(l.Edges))
	}
	if l.Label("root") != "Root" || l.Label("a") != "a" {
		t.Errorf("labels = %v", l.Labels)
	}
	if math.Abs(l.Params.BranchAngleDeg-35) > 1e-9 {
		t.Errorf("BranchAngleDeg = %v, want 35", l.Params.BranchAngleDeg)
	}
	if math.Abs(l.Params.Options().BranchAngle-layout.DefaultBranchAngle) > 1e-12 {
		t.Error("Params.Options did not restore the angle")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	_, l := computeSample(t)
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	if _, err := UnmarshalLayout([]byte("nope")); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("malformed: got %v", err)
	}
	bad := `{"root":"x","positions":{"y":{"x":1,"y":2}}}`
	if _, err := UnmarshalLayout([]byte(bad)); err == nil {
		t.Error("expected error for root without position")
	}
	if _, err := UnmarshalLayout([]byte(`{"root":"","positions":{}}`)); err != nil {
		t.Errorf("empty layout: %v", err)
	}
}

func TestLayoutBounds(t *testing.T) {
	var empty Layout
	if _, _, ok := empty.Bounds(); ok {
		t.Error("empty layout should have no bounds")
	}
	l := Layout{Positions: map[string]Position{
		"a": {X: 1, Y: 5},
		"b": {X: -3, Y: 2},
		"c": {X: 4, Y: 9},
	}}
	minP, maxP, ok := l.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if diff := cmp.Diff(Position{X: -3, Y: 2}, minP); diff != "" {
		t.Errorf("min (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Position{X: 4, Y: 9}, maxP); diff != "" {
		t.Errorf("max (-want +got):\n%s", diff)
	}
}

func TestForestOf(t *testing.T) {
	sim, err := growth.New(growth.DefaultConfig(), rng.New(1))
	if err != nil {
		t.Fatal(err)
	}
	sim.Plant(growth.DefaultSeed())
	sim.InstantGrow()

	f := ForestOf(sim)
	if f.Mode != "instant" {
		t.Errorf("Mode = %q, want instant", f.Mode)
	}
	if len(f.Segments) != f.Stats.Branches {
		t.Errorf("segments = %d, branches = %d", len(f.Segments), f.Stats.Branches)
	}
	if !f.Stats.Complete {
		t.Error("expected complete forest")
	}
	data, err := MarshalForest(f)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"segments"`)) {
		t.Error("missing segments key")
	}
}

func TestWriteLayoutFileBadPath(t *testing.T) {
	_, l := computeSample(t)
	if err := WriteLayoutFile(l, filepath.Join(t.TempDir(), "nope", "x.json")); err == nil {
		t.Error("expected error for missing directory")
	}
}

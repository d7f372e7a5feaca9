package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/arbor/pkg/graph"
)

func sampleLayout() graph.Layout {
	return graph.Layout{
		Root: "root",
		Positions: map[string]graph.Position{
			"root": {X: 600, Y: 650},
			"b":    {X: 600, Y: 550},
			"a":    {X: 520.5, Y: 480},
		},
		Depths: map[string]int{"root": 1, "b": 2, "a": 3},
		Labels: map[string]string{"root": "Root"},
		Edges:  []graph.Edge{{From: "root", To: "b"}, {From: "b", To: "a"}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{})

	for _, want := range []string{
		"digraph G {",
		"layout=neato;",
		`"root" [label="Root", pos="600.00,-650.00!", fillcolor="#00f000", penwidth=7];`,
		`"a" [label="a", pos="520.50,-480.00!"`,
		`"root" -> "b";`,
		`"b" -> "a";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// Nodes sorted by id
	if strings.Index(dot, `"a" [`) > strings.Index(dot, `"b" [`) {
		t.Error("nodes should be emitted in id order")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{Detailed: true, Scheme: 5})
	if !strings.Contains(dot, `depth: 2`) {
		t.Errorf("detailed label missing depth:\n%s", dot)
	}
	if !strings.Contains(dot, `fillcolor="#ff6b00"`) {
		t.Errorf("fire scheme colour missing:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(graph.Layout{}, Options{})
	if strings.Contains(dot, "->") || strings.Contains(dot, "pos=") {
		t.Errorf("empty layout produced nodes:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

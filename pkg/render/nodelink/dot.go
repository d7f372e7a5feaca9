package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Scheme selects the palette used to colour nodes by depth.
	Scheme int

	// Detailed adds depth and coordinates to node labels.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT with every node pinned at its
// computed position. The y axis is flipped because Graphviz grows upwards.
//
// Nodes are emitted in id order so the output is deterministic.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, width=0.3, fixedsize=false];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	ids := make([]string, 0, len(l.Positions))
	for id := range l.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		p := l.Positions[id]
		depth := max(l.Depths[id], 1)
		c := palette.Hex(palette.Color(opts.Scheme, depth))
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\", fillcolor=%q, penwidth=%d];\n",
			id, fmtLabel(l, id, opts.Detailed), p.X, -p.Y, c, palette.Thickness(depth))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(l graph.Layout, id string, detailed bool) string {
	label := l.Label(id)
	if !detailed {
		return label
	}
	p := l.Positions[id]
	return fmt.Sprintf("%s\ndepth: %d\n(%.0f, %.0f)", label, l.Depths[id], p.X, p.Y)
}

// RenderSVG renders DOT to SVG using Graphviz with the neato engine, which
// honours pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

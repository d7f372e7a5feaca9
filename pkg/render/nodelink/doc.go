// Package nodelink renders static layouts as node-link diagrams.
//
// Every node is pinned at the position computed by the layout engine, and
// Graphviz only draws the result:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Scheme: 6})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Node fill follows the depth palette and node outline width follows the
// branch thickness rule, so diagrams match the growth renderer.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no external binaries are needed.
package nodelink

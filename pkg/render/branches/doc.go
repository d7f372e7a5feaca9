// Package branches draws trees as stroked line segments.
//
// It renders both growth forests (one segment per branch, drawn up to the
// current tip) and static layouts (one segment per placed edge). Colour and
// stroke width follow [palette] by depth.
//
// Two sinks are provided: [RenderSVG] writes vector output and [RenderPNG]
// rasterizes with golang.org/x/image/vector. For animation, [Canvas] keeps
// static subtrees in a cached layer so each frame only rasterizes the
// branches that are still growing.
package branches

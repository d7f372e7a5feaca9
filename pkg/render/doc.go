// Package render groups the arbor renderers.
//
//   - [branches] draws layouts and growth forests as line segments whose
//     width and colour depend on depth (SVG, PNG, and raw frames for
//     animations).
//   - [nodelink] emits Graphviz DOT for a layout with pinned positions and
//     renders it to SVG.
//   - [palette] holds the colour schemes and the depth-to-thickness rule
//     shared by both, and by the terminal view.
//
// [branches]: github.com/matzehuels/arbor/pkg/render/branches
// [nodelink]: github.com/matzehuels/arbor/pkg/render/nodelink
// [palette]: github.com/matzehuels/arbor/pkg/render/palette
package render

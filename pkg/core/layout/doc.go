// Package layout assigns plane coordinates to every node of a rooted,
// arbitrary-arity tree in one recursive pass.
//
// The placement mimics a growing tree rather than a tidy drawing: each child
// sits at the end of a branch that starts at its parent, continues the
// parent's direction, fans out across a fixed angular spread when there are
// siblings, and is shorter than the parent's branch by a random decay factor.
//
// # Algorithm
//
//  1. Build the adjacency structure and pick a root ([tree.Build]).
//  2. Pick the base branch length from the node count ([Bands.Select]).
//  3. Place the root at the origin, pointing "up" (angle −π/2).
//  4. For a node reached with angle a, length L and depth d, stop when
//     d ≥ MaxDepth or L < MinBranchLength. Otherwise its k children get
//     offsets spread linearly over [−BranchAngle, +BranchAngle] (0 for a
//     single child) and are placed at distance L along a+offset. Each child
//     recurses with length L·U(0.8, BranchFactor) and depth d+1.
//
// Nodes already placed are skipped, so duplicate edges and cycles cannot
// reposition a node or loop forever.
//
// # Randomness
//
// The length decay is the only randomized step. Pass a seeded source in
// [Options.Rand] (see [rng.New]) for reproducible layouts.
//
// # Non-goals
//
// There is no collision avoidance, subtree-width balancing or edge-crossing
// minimization. Overlapping subtrees are expected.
package layout

// Package pkg holds the libraries behind arbor, which lays out rooted trees
// as branching fractals and grows fractal trees over time.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. [core] - Domain logic (tree extraction, branch layout, growth)
//  2. [graph] - Serialization types for graphs, layouts and forests
//  3. [render] - Branch drawings (SVG, PNG) and Graphviz node-link diagrams
//  4. [pipeline] - Orchestration (parse → layout → render, headless growth)
//
// Supporting packages: [cache] (file and Redis result cache), [store]
// (MongoDB layout store), [config] (arbor.toml), [errors] (coded errors)
// and [observability] (metrics hooks).
//
// # Architecture
//
// The static layout flows through:
//
//	graph JSON / edge list
//	         ↓
//	    [core/tree]    (root selection, children in input order)
//	         ↓
//	    [core/layout]  (recursive fan-out placement)
//	         ↓
//	    [render/branches] or [render/nodelink]
//	         ↓
//	    SVG/PNG/DOT/JSON output
//
// The growth simulation lives in [core/growth]; every random draw goes
// through [core/rng] so a seed reproduces a run.
//
// # Quick Start
//
//	g, _ := pipeline.ReadInputFile("org.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("org.svg", res.Artifacts["svg"], 0o644)
//
// # Testing
//
//	go test ./pkg/...
//
// [core]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/core
// [core/growth]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/core/growth
// [core/rng]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/core/rng
// [graph]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/observability
//
// [core/tree]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/core/tree
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/core/layout
// [render/branches]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/render/branches
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/arbor/pkg/render/nodelink
package pkg

// Package graph provides the serialization types for arbor's inputs and
// outputs.
//
// This package defines the canonical wire format used for JSON files, API
// requests and responses, caching and MongoDB persistence.
//
// # Core Types
//
//   - [Graph]: Node-link input format ({nodes, edges})
//   - [Layout]: A computed static layout (positions keyed by node id)
//   - [Forest]: A snapshot of a growth simulation (flattened branch segments)
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "CEO"}, {"id": "CTO"}],
//	  "edges": [{"from": "CEO", "to": "CTO"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("org.json")     // File → Graph
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// Node order and edge order are significant: the first parentless node is
// the layout root and children are spread in edge order.
//
// # Node Metadata
//
// The meta object carries arbitrary key-value data. It is preserved on
// round trips and never read by the layout engine.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph

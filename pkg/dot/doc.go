// Package dot builds GraphViz DOT graphs in memory and serializes them
// deterministically.
//
// # Overview
//
// A [Graph] holds nodes (grouped into buckets), edges (with multiplicity),
// nested clusters and subgraphs, and graph-level attributes. [Graph.Serialize]
// walks the model and produces DOT text suitable for the GraphViz tools or
// the in-process renderer in pkg/render.
//
// All order-significant containers are backed by an insertion-ordered map,
// so serializing the same graph state twice yields byte-identical output.
// Downstream consumers rely on this: rendered artifacts are cached under a
// hash of the produced text.
//
// # Building a graph
//
//	g := dot.New(true, true, "G", nil)
//	g.AddNode("A", dot.Attrs{{Key: "shape", Value: "box"}})
//	g.AddNode("B", nil)
//	g.AddEdge(dot.Edge{From: "A", To: "B"}, dot.Attrs{{Key: "label", Value: "Edge Label"}})
//	text, err := g.Serialize()
//
// # Groups
//
// Clusters and subgraphs nest through a flat parent relation: each group
// records the id of the group it is embedded in, with the implicit group
// "default" as the root. Clusters are emitted with the conventional
// "cluster_" name prefix so GraphViz draws an enclosing boundary.
//
// # Strict graphs
//
// In strict mode, multiple edges between the same ordered node pair collapse
// into a single record whose attributes are merged, matching GraphViz's own
// strict semantics. Otherwise records accumulate and each [Graph.AddEdge]
// call returns the new record's id.
//
// # Persistence
//
// [Encode] and [Decode] convert a Graph to and from a JSON blob, preserving
// insertion order. Decode tolerates the older flat edge-list schema and
// replays it through [Graph.AddEdge].
//
// # Concurrency
//
// Graph is not safe for concurrent mutation; callers must serialize access
// externally. Serialization is a pure read pass.
package dot

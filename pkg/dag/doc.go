// Package dag provides the row-indexed directed graph used by the layered
// layout.
//
// # Overview
//
// Nodes are organised into horizontal rows (layers). After
// [transform.AssignLayers] and [transform.Subdivide] every edge joins two
// consecutive rows, which is the shape the ordering heuristics and the
// crossing counters work on.
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "api", Row: 0})
//	g.AddNode(dag.Node{ID: "store", Row: 1})
//	g.AddEdge(dag.Edge{From: "api", To: "store"})
//
// # Determinism
//
// The graph keeps insertion order for nodes, rows and adjacency lists. Two
// graphs built from the same input in the same order behave identically,
// which the layout relies on for reproducible drawings.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a
// Fenwick tree in O(E log V) time. [CountPairCrossings] evaluates a single
// adjacent swap.
//
// # Concurrency
//
// A DAG is not safe for concurrent use. Counting crossings on a graph that
// nobody mutates is safe from several goroutines.
//
// [transform.AssignLayers]: github.com/orakul/orakul/pkg/dag/transform
// [transform.Subdivide]: github.com/orakul/orakul/pkg/dag/transform
package dag

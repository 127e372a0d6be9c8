// Package transform turns an arbitrary directed graph into the proper
// layered form the layout orders and draws.
//
// The steps run in this order:
//
//   - [BreakCycles] removes back edges found by depth-first search and
//     returns them so the caller can still draw them.
//   - [AssignLayers] assigns rows by longest path from the sources.
//   - [Subdivide] splits edges spanning several rows into chains of
//     virtual nodes so every remaining edge joins consecutive rows.
//
// All three are deterministic for a given insertion order.
package transform

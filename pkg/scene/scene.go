// Package scene defines the renderable data model of an Orakul diagram and
// the element builders that create nodes and edges.
//
// A scene is a set of [Node] values and a set of directed [Edge] values for
// one [Level]. Nodes carry a [Kind] from a closed set (Actual, Database,
// Planned); renderers look up what they may draw and allow through
// [CapabilitiesOf] rather than by type name.
//
// Positions and edge routes are filled in by pkg/layout. Selection and
// highlight flags are derived by pkg/interaction and are never part of the
// raw data.
//
// # Builders
//
// [BuildNode] and [BuildEdge] are the single place where user-created
// elements get identities. BuildEdge rejects self-loops and duplicate
// ordered pairs by returning false:
//
//	e, ok := scene.BuildEdge("api", "db", edges)
//	if !ok {
//	    return // nothing happens
//	}
//	edges = append(edges, e)
package scene

import (
	"maps"
	"slices"
)

// Metadata holds level-specific display data such as a source path or
// statistics. Values are JSON-compatible.
type Metadata map[string]any

// Data is the display payload of a node.
type Data struct {
	Name string   `json:"name"`
	Meta Metadata `json:"meta,omitempty"`
}

// Position is the top-left corner of a node's bounding box.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point is a vertex of an edge route.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the diagram.
type Node struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Data     Data     `json:"data"`
	Position Position `json:"position"`

	// Placed reports whether Position was assigned.
	Placed bool `json:"placed"`

	// Selected is derived from the current selection.
	Selected bool `json:"selected,omitempty"`
}

// Label returns the display name, falling back to the id.
func (n Node) Label() string {
	if n.Data.Name != "" {
		return n.Data.Name
	}
	return n.ID
}

// Clone returns a copy of n that shares no maps with it.
func (n Node) Clone() Node {
	n.Data.Meta = maps.Clone(n.Data.Meta)
	return n
}

// Edge is a directed connection from Source to Target.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`

	// Highlighted is derived from the current selection.
	Highlighted bool `json:"highlighted"`

	// Points is the routed path, source first. Empty until laid out.
	Points []Point `json:"points,omitempty"`
}

// Touches reports whether id is the source or the target of e.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Clone returns a copy of e that shares no slices with it.
func (e Edge) Clone() Edge {
	e.Points = slices.Clone(e.Points)
	return e
}

// PairID returns the identifier used for edges derived from raw data.
func PairID(source, target string) string { return source + "->" + target }

// HasEdge reports whether edges already contains the ordered pair.
func HasEdge(edges []Edge, source, target string) bool {
	for _, e := range edges {
		if e.Source == source && e.Target == target {
			return true
		}
	}
	return false
}

// CloneNodes deep-copies a node slice.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneEdges deep-copies an edge slice.
func CloneEdges(edges []Edge) []Edge {
	if edges == nil {
		return nil
	}
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}

// NodeIndex maps node ids to their index in nodes.
func NodeIndex(nodes []Node) map[string]int {
	m := make(map[string]int, len(nodes))
	for i, n := range nodes {
		m[n.ID] = i
	}
	return m
}

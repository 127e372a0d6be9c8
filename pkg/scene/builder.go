package scene

import (
	"strings"

	"github.com/google/uuid"
)

// Builder creates nodes and edges with fresh identities.
// The zero value uses random UUIDs.
type Builder struct {
	// NewID returns a fresh identifier. Defaults to uuid.NewString.
	NewID func() string
}

func (b *Builder) newID() string {
	if b == nil || b.NewID == nil {
		return uuid.NewString()
	}
	return b.NewID()
}

// Node builds a node of the given kind. The position is left unset for the
// layout pass.
func (b *Builder) Node(kind Kind, data Data) Node {
	if !kind.Valid() {
		kind = Actual
	}
	n := Node{
		ID:   b.newID(),
		Kind: kind,
		Data: data,
	}
	return n.Clone()
}

// PlannedNode builds a Planned node named name.
func (b *Builder) PlannedNode(name string) Node {
	return b.Node(Planned, Data{Name: strings.TrimSpace(name)})
}

// Edge builds an edge from source to target. It returns false when the
// connection must be rejected: an empty endpoint, a self-loop, or an ordered
// pair already present in existing.
func (b *Builder) Edge(source, target string, existing []Edge) (Edge, bool) {
	if source == "" || target == "" || source == target {
		return Edge{}, false
	}
	if HasEdge(existing, source, target) {
		return Edge{}, false
	}
	return Edge{
		ID:     b.newID(),
		Source: source,
		Target: target,
	}, true
}

var defaultBuilder Builder

// BuildNode builds a node with a random id.
func BuildNode(kind Kind, data Data) Node { return defaultBuilder.Node(kind, data) }

// BuildPlannedNode builds a Planned node with a random id.
func BuildPlannedNode(name string) Node { return defaultBuilder.PlannedNode(name) }

// BuildEdge builds an edge with a random id, or returns false for a
// self-loop or duplicate pair.
func BuildEdge(source, target string, existing []Edge) (Edge, bool) {
	return defaultBuilder.Edge(source, target, existing)
}

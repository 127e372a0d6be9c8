package graph

import (
	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/interaction"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/scene"
)

// Version is the current wire format version.
const Version = 1

// Scene is the serialised form of a snapshot.
type Scene struct {
	Version   int      `json:"version" bson:"version"`
	Level     string   `json:"level" bson:"level"`
	Direction string   `json:"direction" bson:"direction"`
	Width     float64  `json:"width" bson:"width"`
	Height    float64  `json:"height" bson:"height"`
	Selected  string   `json:"selected,omitempty" bson:"selected,omitempty"`
	Nodes     []Node   `json:"nodes" bson:"nodes"`
	Edges     []Edge   `json:"edges" bson:"edges"`
	BackEdges []string `json:"back_edges,omitempty" bson:"back_edges,omitempty"`
}

// Node is a positioned node box.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"`
	Kind     string         `json:"kind" bson:"kind"`
	X        float64        `json:"x" bson:"x"`
	Y        float64        `json:"y" bson:"y"`
	Width    float64        `json:"width" bson:"width"`
	Height   float64        `json:"height" bson:"height"`
	Selected bool           `json:"selected,omitempty" bson:"selected,omitempty"`
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a routed edge.
type Edge struct {
	ID          string  `json:"id" bson:"id"`
	Source      string  `json:"source" bson:"source"`
	Target      string  `json:"target" bson:"target"`
	Highlighted bool    `json:"highlighted,omitempty" bson:"highlighted,omitempty"`
	Points      []Point `json:"points,omitempty" bson:"points,omitempty"`
}

// Point is a route vertex.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// FromSnapshot converts a snapshot. opts supplies the node box size.
func FromSnapshot(s interaction.Snapshot, opts layout.Options) Scene {
	opts = opts.WithDefaults()
	out := Scene{
		Version:   Version,
		Level:     s.Level.String(),
		Direction: s.Direction.String(),
		Width:     s.Width,
		Height:    s.Height,
		Selected:  s.Selected,
		Nodes:     make([]Node, len(s.Nodes)),
		Edges:     make([]Edge, len(s.Edges)),
		BackEdges: append([]string(nil), s.BackEdges...),
	}
	for i, n := range s.Nodes {
		n = n.Clone()
		out.Nodes[i] = Node{
			ID:       n.ID,
			Label:    n.Data.Name,
			Kind:     n.Kind.String(),
			X:        n.Position.X,
			Y:        n.Position.Y,
			Width:    opts.NodeWidth,
			Height:   opts.NodeHeight,
			Selected: n.Selected,
			Meta:     n.Data.Meta,
		}
	}
	for i, e := range s.Edges {
		points := make([]Point, len(e.Points))
		for j, p := range e.Points {
			points[j] = Point{X: p.X, Y: p.Y}
		}
		out.Edges[i] = Edge{
			ID:          e.ID,
			Source:      e.Source,
			Target:      e.Target,
			Highlighted: e.Highlighted,
			Points:      points,
		}
	}
	return out
}

// Snapshot converts the scene back. It fails on an unknown level,
// direction or node kind, a duplicate node id, or an edge with an unknown
// endpoint.
func (s Scene) Snapshot() (interaction.Snapshot, error) {
	level, err := scene.ParseLevel(s.Level)
	if err != nil {
		return interaction.Snapshot{}, err
	}
	dir, err := scene.ParseDirection(s.Direction)
	if err != nil {
		return interaction.Snapshot{}, err
	}

	out := interaction.Snapshot{
		Level:     level,
		Direction: dir,
		Selected:  s.Selected,
		Width:     s.Width,
		Height:    s.Height,
		Nodes:     make([]scene.Node, len(s.Nodes)),
		Edges:     make([]scene.Edge, len(s.Edges)),
		BackEdges: append([]string(nil), s.BackEdges...),
	}

	seen := make(map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return interaction.Snapshot{}, err
		}
		if seen[n.ID] {
			return interaction.Snapshot{}, errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		kind, err := scene.ParseKind(n.Kind)
		if err != nil {
			return interaction.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		out.Nodes[i] = scene.Node{
			ID:       n.ID,
			Kind:     kind,
			Data:     scene.Data{Name: n.Label, Meta: n.Meta},
			Position: scene.Position{X: n.X, Y: n.Y},
			Placed:   true,
			Selected: n.Selected,
		}.Clone()
	}
	for i, e := range s.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			return interaction.Snapshot{}, errors.New(errors.ErrCodeInvalidFormat, "edge %s references an unknown node", e.ID)
		}
		points := make([]scene.Point, len(e.Points))
		for j, p := range e.Points {
			points[j] = scene.Point{X: p.X, Y: p.Y}
		}
		out.Edges[i] = scene.Edge{
			ID:          e.ID,
			Source:      e.Source,
			Target:      e.Target,
			Highlighted: e.Highlighted,
			Points:      points,
		}
	}
	return out, nil
}

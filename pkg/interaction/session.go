package interaction

import (
	"github.com/orakul/orakul/pkg/scene"
)

// Session is the live graph of one active level. It is created when a level
// is activated and discarded wholesale on the next level change; nothing
// else holds a reference to its nodes or edges.
type Session struct {
	level    scene.Level
	nodes    []scene.Node
	edges    []scene.Edge
	index    map[string]int
	selected string

	width, height float64
	backEdges     []string

	// pending counts planned nodes placed since the last layout.
	pending int
}

func newSession(level scene.Level, nodes []scene.Node, edges []scene.Edge) *Session {
	s := &Session{level: level}
	s.replace(nodes, edges)
	return s
}

func (s *Session) replace(nodes []scene.Node, edges []scene.Edge) {
	s.nodes = nodes
	s.edges = edges
	s.index = scene.NodeIndex(nodes)
}

// Level returns the level the session was created for.
func (s *Session) Level() scene.Level { return s.level }

// Selected returns the active node id, or "" when nothing is selected.
func (s *Session) Selected() string { return s.selected }

// NodeCount returns the number of nodes, planned nodes included.
func (s *Session) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Session) EdgeCount() int { return len(s.edges) }

// Node returns a copy of the node with the given id.
func (s *Session) Node(id string) (scene.Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return scene.Node{}, false
	}
	return s.nodes[i].Clone(), true
}

func (s *Session) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Session) appendNode(n scene.Node) {
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

// applySelection recomputes every selection and highlight flag from the
// active id and reports whether any flag changed.
func (s *Session) applySelection(active string) bool {
	changed := s.selected != active
	s.selected = active
	for i := range s.nodes {
		sel := active != "" && s.nodes[i].ID == active
		changed = changed || s.nodes[i].Selected != sel
		s.nodes[i].Selected = sel
	}
	for i := range s.edges {
		hl := active != "" && s.edges[i].Touches(active)
		changed = changed || s.edges[i].Highlighted != hl
		s.edges[i].Highlighted = hl
	}
	return changed
}

// Snapshot is a deep copy of the visible state, handed to the surface.
type Snapshot struct {
	Level     scene.Level     `json:"level"`
	Direction scene.Direction `json:"direction"`
	Nodes     []scene.Node    `json:"nodes"`
	Edges     []scene.Edge    `json:"edges"`
	Selected  string          `json:"selected,omitempty"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	BackEdges []string        `json:"backEdges,omitempty"`
}

func (s *Session) snapshot(dir scene.Direction) Snapshot {
	return Snapshot{
		Level:     s.level,
		Direction: dir,
		Nodes:     scene.CloneNodes(s.nodes),
		Edges:     scene.CloneEdges(s.edges),
		Selected:  s.selected,
		Width:     s.width,
		Height:    s.height,
		BackEdges: append([]string(nil), s.backEdges...),
	}
}

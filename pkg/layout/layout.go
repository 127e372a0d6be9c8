// Package layout computes positions for the nodes of a scene and routes for
// its edges.
//
// [Layout] is a layered (Sugiyama-style) drawing:
//
//  1. build a [dag.DAG] of the nodes in input order, dropping edges with an
//     unknown endpoint, self-loops and repeated pairs
//  2. remove cycle-closing back edges from the layering graph
//  3. assign layers by longest path from the sources
//  4. split edges spanning several layers with virtual nodes
//  5. order each layer with barycentric sweeps to reduce crossings
//  6. convert layer and slot indices to coordinates for the direction
//
// Every node gets its own slot, so node boxes never overlap. Layers are
// centred on the widest one. Layout is pure and deterministic: the same
// input always yields the same result, and laying out a result again
// changes nothing.
//
// Back edges are still part of the result; they are drawn as straight
// segments and listed in [Result.BackEdges].
package layout

import (
	"github.com/orakul/orakul/pkg/dag"
	"github.com/orakul/orakul/pkg/dag/transform"
	"github.com/orakul/orakul/pkg/ordering"
	"github.com/orakul/orakul/pkg/scene"
)

// Result is a positioned scene.
type Result struct {
	// Nodes are copies of the input nodes, in input order, with Position
	// set and Placed true.
	Nodes []scene.Node `json:"nodes"`
	// Edges are copies of the kept input edges, in input order, with
	// Points set.
	Edges []scene.Edge `json:"edges"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Layers is the number of layers, virtual layers included.
	Layers int `json:"layers"`
	// Crossings is the number of edge crossings between consecutive layers.
	Crossings int `json:"crossings"`
	// BackEdges lists the ids of edges removed to break cycles.
	BackEdges []string `json:"backEdges,omitempty"`
}

// Layout positions nodes and routes edges in direction dir.
func Layout(nodes []scene.Node, edges []scene.Edge, dir scene.Direction, opts Options) Result {
	opts = opts.WithDefaults()
	if !dir.Valid() {
		dir = scene.TopToBottom
	}

	g := dag.New()
	for _, n := range nodes {
		_ = g.AddNode(dag.Node{ID: n.ID})
	}

	kept := make([]scene.Edge, 0, len(edges))
	for _, e := range edges {
		if g.AddEdge(dag.Edge{From: e.Source, To: e.Target}) == nil {
			kept = append(kept, e.Clone())
		}
	}

	back := transform.BreakCycles(g)
	transform.AssignLayers(g)
	chains := transform.Subdivide(g)
	orders := ordering.Barycentric{Passes: opts.Passes}.OrderRows(g)

	geo := newGeometry(g, orders, dir, opts)

	res := Result{
		Nodes:     make([]scene.Node, len(nodes)),
		Edges:     kept,
		Width:     geo.width,
		Height:    geo.height,
		Layers:    g.RowCount(),
		Crossings: dag.CountCrossings(g, orders),
	}

	for i, n := range nodes {
		n = n.Clone()
		n.Position = geo.pos[n.ID]
		n.Placed = true
		res.Nodes[i] = n
	}

	isBack := make(map[dag.Edge]bool, len(back))
	for _, e := range back {
		isBack[e] = true
	}
	for i := range res.Edges {
		e := &res.Edges[i]
		key := dag.Edge{From: e.Source, To: e.Target}
		if isBack[key] {
			res.BackEdges = append(res.BackEdges, e.ID)
			e.Points = []scene.Point{geo.centre(e.Source), geo.centre(e.Target)}
			continue
		}
		points := make([]scene.Point, 0, len(chains[key])+2)
		points = append(points, geo.centre(e.Source))
		for _, v := range chains[key] {
			points = append(points, geo.centre(v))
		}
		e.Points = append(points, geo.centre(e.Target))
	}

	return res
}

// geometry converts (layer, slot) indices into coordinates.
type geometry struct {
	pos           map[string]scene.Position
	width, height float64
	nodeW, nodeH  float64
}

func newGeometry(g *dag.DAG, orders map[int][]string, dir scene.Direction, opts Options) *geometry {
	geo := &geometry{
		pos:   make(map[string]scene.Position, g.NodeCount()),
		nodeW: opts.NodeWidth,
		nodeH: opts.NodeHeight,
	}

	// Extents along the layer axis and the slot axis.
	layerExtent, slotExtent := opts.NodeHeight, opts.NodeWidth
	if dir.Horizontal() {
		layerExtent, slotExtent = opts.NodeWidth, opts.NodeHeight
	}
	layerStep := layerExtent + opts.RankSep
	slotStep := slotExtent + opts.NodeSep

	rows := g.RowIDs()
	widest := 0
	for _, r := range rows {
		widest = max(widest, len(orders[r]))
	}
	if len(rows) == 0 {
		return geo
	}

	for i, r := range rows {
		layer := i
		if dir.Reversed() {
			layer = len(rows) - 1 - i
		}
		offset := float64(widest-len(orders[r])) * slotStep / 2
		for slot, id := range orders[r] {
			l := float64(layer) * layerStep
			s := offset + float64(slot)*slotStep
			if dir.Horizontal() {
				geo.pos[id] = scene.Position{X: l, Y: s}
			} else {
				geo.pos[id] = scene.Position{X: s, Y: l}
			}
		}
	}

	layerSpan := float64(len(rows))*layerStep - opts.RankSep
	slotSpan := float64(widest)*slotStep - opts.NodeSep
	if dir.Horizontal() {
		geo.width, geo.height = layerSpan, slotSpan
	} else {
		geo.width, geo.height = slotSpan, layerSpan
	}
	return geo
}

func (geo *geometry) centre(id string) scene.Point {
	p := geo.pos[id]
	return scene.Point{X: p.X + geo.nodeW/2, Y: p.Y + geo.nodeH/2}
}

// Package nodelink renders scenes as node-link diagrams with Graphviz.
//
// [ToDOT] turns a [graph.Scene] into DOT source. Node shape, fill and
// outline come from the kind capability table (actual elements are boxes,
// databases cylinders, planned elements dashed notes); highlighted edges
// and the selected node are drawn bold.
//
//	dot := nodelink.ToDOT(s, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//
// Two placement engines are available. [EngineDot] lets Graphviz lay the
// diagram out again in the scene's direction, which gives nicer splines.
// [EnginePinned] keeps the positions computed by pkg/layout by pinning every
// node and routing edges with neato.
//
// Rendering runs in-process through [github.com/goccy/go-graphviz]; no
// Graphviz installation is needed for SVG and PNG.
//
// [graph.Scene]: github.com/orakul/orakul/pkg/graph
package nodelink

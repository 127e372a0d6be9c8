// Package render holds output helpers shared by renderers.
//
// Diagrams are drawn by the [nodelink] subpackage, which produces Graphviz
// DOT and renders SVG or PNG in-process. [ToPDF] converts SVG to PDF with
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/orakul/orakul/pkg/render/nodelink
package render

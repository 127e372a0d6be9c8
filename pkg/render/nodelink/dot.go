package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/scene"
)

// pointsPerInch converts scene units (points) to Graphviz inches.
const pointsPerInch = 72.0

// Engine selects how Graphviz places nodes.
type Engine string

const (
	// EngineDot lets Graphviz lay the diagram out again with dot.
	EngineDot Engine = "dot"
	// EnginePinned keeps the scene's own positions (neato with pinned nodes).
	EnginePinned Engine = "pinned"
)

// ParseEngine parses an engine name; "" means [EngineDot].
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(s)) {
	case EngineDot, "":
		return EngineDot, nil
	case EnginePinned, "neato":
		return EnginePinned, nil
	}
	return EngineDot, fmt.Errorf("unknown engine %q (want dot or pinned)", s)
}

// Options configures diagram generation.
type Options struct {
	// Detailed adds node metadata to labels.
	Detailed bool
	// Engine selects the placement. Defaults to EngineDot.
	Engine Engine
}

// ToDOT converts a scene to Graphviz DOT. Shapes, fills and dashed outlines
// come from the kind capability table; highlighted edges and the selected
// node are drawn bold.
func ToDOT(s graph.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankDir(s.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	if opts.Engine == EnginePinned {
		buf.WriteString("  splines=true;\n")
	}
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := nodeAttrs(n, s.Height, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		var attrs []string
		if e.Highlighted {
			attrs = append(attrs, "penwidth=2.5", "color=\"#1f6feb\"")
		}
		if slices.Contains(s.BackEdges, e.ID) {
			attrs = append(attrs, "constraint=false")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankDir(dir string) string {
	d, err := scene.ParseDirection(dir)
	if err != nil {
		return scene.TopToBottom.String()
	}
	return d.String()
}

func nodeLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed || len(n.Meta) == 0 {
		return label
	}
	parts := []string{label}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n graph.Node, height float64, opts Options) []string {
	kind, _ := scene.ParseKind(n.Kind)
	caps := scene.CapabilitiesOf(kind)

	style := "rounded,filled"
	if caps.Shape != scene.ShapeBox {
		style = "filled"
	}
	if caps.Dashed {
		style += ",dashed"
	}

	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed)),
		fmt.Sprintf("shape=%s", caps.Shape),
		fmt.Sprintf("style=%q", style),
		fmt.Sprintf("fillcolor=%s", caps.Fill),
	}
	if n.Selected {
		attrs = append(attrs, "penwidth=2.5")
	}
	if opts.Engine == EnginePinned {
		// Graphviz puts the origin bottom-left and pos at the node centre.
		x := (n.X + n.Width/2) / pointsPerInch
		y := (height - n.Y - n.Height/2) / pointsPerInch
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%.3f,%.3f!\"", x, y),
			fmt.Sprintf("width=%.3f", n.Width/pointsPerInch),
			fmt.Sprintf("height=%.3f", n.Height/pointsPerInch),
			"fixedsize=true",
		)
	}
	return attrs
}

// Render lays out dot with engine and renders it in format.
func Render(ctx context.Context, dot string, engine Engine, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	if engine == EnginePinned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders dot to SVG with a normalised viewBox.
func RenderSVG(ctx context.Context, dot string, engine Engine) ([]byte, error) {
	svg, err := Render(ctx, dot, engine, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders dot to PNG.
func RenderPNG(ctx context.Context, dot string, engine Engine) ([]byte, error) {
	return Render(ctx, dot, engine, graphviz.PNG)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one whose viewBox
// starts at the origin and whose size matches it, so the image scales.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/render"
	"github.com/orakul/orakul/pkg/render/nodelink"
)

// Render produces one artifact per requested format. SVG is rendered at
// most once even when both svg and pdf are asked for.
func Render(ctx context.Context, s graph.Scene, opts Options) (map[string][]byte, error) {
	engine, err := nodelink.ParseEngine(opts.Engine)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "engine")
	}
	dot := nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed, Engine: engine})

	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot, engine)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = graph.MarshalScene(s)
		case FormatSVG:
			data, err = renderSVG()
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, engine)
		case FormatPDF:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/pipeline"
)

// visualizeCommand creates the visualize command.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		engine     string
		detailed   bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [scene.json]",
		Short: "Render a scene file",
		Long: `Render a scene file produced by 'layout'.

Formats: svg, png, pdf (needs rsvg-convert), dot, json. The dot engine lets
Graphviz route the diagram again; the pinned engine keeps the computed
positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Source:   args[0],
				Formats:  parseFormats(formatsStr),
				Engine:   firstNonEmpty(engine, c.Config.Render.Engine),
				Detailed: detailed || c.Config.Render.Detailed,
				Logger:   c.Logger,
			}
			if opts.Formats == nil {
				opts.Formats = append([]string(nil), c.Config.Render.Formats...)
			}
			return c.runVisualize(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&engine, "engine", "", "placement engine: dot, pinned")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add node metadata to labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	s, err := graph.ReadSceneFile(opts.Source)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", opts.Source, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     strings.TrimSuffix(opts.Source, ".scene.json"),
		output:    output,
		cacheHit:  cacheHit,
		nodes:     len(s.Nodes),
		edges:     len(s.Edges),
	})
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	nodes     int
	edges     int
}

// writeArtifacts writes one file per format. With a single format, output
// is the file name; otherwise its extension is replaced per format. Without
// output, extensions are added to input.
func writeArtifacts(p artifactWriteParams) error {
	paths := artifactPaths(p.input, p.output, p.formats)
	for _, format := range p.formats {
		path := paths[format]
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Rendered %s", strings.Join(p.formats, ", "))
	for _, format := range p.formats {
		printFile(paths[format])
	}
	printStats(p.nodes, p.edges, p.cacheHit)
	return nil
}

func artifactPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := input
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

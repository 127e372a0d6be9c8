package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orakul/orakul/pkg/pipeline"
)

// renderCommand creates the render command: layout and visualize in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      viewFlags
		formatsStr string
		output     string
		engine     string
		detailed   bool
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "render [system.json|yaml|toml|mongodb://...]",
		Short: "Lay out and render one level in one step",
		Long: `Lay out and render one level of a system description in one step.

Equivalent to 'layout' followed by 'visualize', without the intermediate
scene file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(args[0], flags)
			if f := parseFormats(formatsStr); f != nil {
				opts.Formats = f
			}
			opts.Engine = firstNonEmpty(engine, opts.Engine)
			opts.Detailed = opts.Detailed || detailed
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&engine, "engine", "", "placement engine: dot, pinned")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add node metadata to labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s level", res.Scene.Level))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   sortedFormats(res.Artifacts),
		input:     derivedPath(opts.Source, res.Scene.Level),
		output:    output,
		cacheHit:  res.CacheInfo.SceneHit && res.CacheInfo.RenderHit,
		nodes:     res.Stats.NodeCount,
		edges:     res.Stats.EdgeCount,
	})
}

// sortedFormats returns the artifact formats in pipeline.Formats order.
func sortedFormats(artifacts map[string][]byte) []string {
	var out []string
	for _, f := range pipeline.Formats {
		if _, ok := artifacts[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/pipeline"
	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/source"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   viewFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [system.json|yaml|toml|mongodb://...]",
		Short: "Project one level of a system and compute its layout",
		Long: `Project one level of a system description and compute its layout.

The input is a JSON, YAML or TOML file, or a MongoDB URI. The output is a
scene file (<input>.<level>.scene.json) holding positioned nodes and routed
edges, which 'visualize' renders.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(args[0], flags)
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<level>.scene.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Level))
	spinner.Start()

	raw, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	s, cacheHit, err := runner.SceneWithCacheInfo(ctx, raw, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(opts.Source, opts.Level+".scene.json")
	}
	if err := graph.WriteSceneFile(s, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(s.Nodes), len(s.Edges), cacheHit)
	if len(s.BackEdges) > 0 {
		printWarning("%d edge(s) close a cycle and are drawn against the flow", len(s.BackEdges))
	}
	printLevels(raw)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)
	return nil
}

// printLevels lists the levels the raw document can show.
func printLevels(raw projection.RawData) {
	levels := projection.Levels(raw)
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	if len(names) == 0 {
		printDetail("No level sections found")
		return
	}
	printDetail("Levels: %s", strings.Join(names, ", "))
}

// derivedPath puts suffix next to input. MongoDB sources write to the
// working directory.
func derivedPath(input, suffix string) string {
	if source.IsMongoURI(input) {
		return appName + "." + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + suffix
}

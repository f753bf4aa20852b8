package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/needful/pkg/dag"
)

// Graph output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		cluster  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [ref]...",
		Short: "Export the resource dependency graph",
		Long: `Export the dependency graph of the given resources, or of every
published resource when none are given. Edges point from a resource to
the resources it depends on.`,
		Example: `  # DOT for everything the demo publishes
  needful graph

  # SVG of what one page needs
  needful graph widgets.widget -f svg -o widget.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
			}

			e, err := c.setup(ctx, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			needed, err := e.neededFor(ctx, e.manager.Options(), args)
			if err != nil {
				return userError(err)
			}
			g, err := needed.Graph()
			if err != nil {
				return userError(err)
			}
			if err := g.Validate(); err != nil {
				return err
			}

			dotOpts := dag.DOTOptions{Detailed: detailed}
			if cluster {
				dotOpts.Cluster = "library"
			}
			data := []byte(dag.ToDOT(g, dotOpts))

			if format == formatSVG {
				spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
				spin.Start()
				data, err = dag.RenderSVG(ctx, string(data))
				spin.Stop()
				if spin.Interrupted() {
					return ctx.Err()
				}
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported %s graph", format)
			printStats(g.NodeCount(), g.EdgeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with library and kind")
	cmd.Flags().BoolVar(&cluster, "cluster", true, "group nodes by library")

	return cmd
}

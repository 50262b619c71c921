package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/workspace"
	"github.com/matzehuels/mosaic/pkg/render"
)

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Render the split tree as Graphviz DOT or SVG",
		Example: `  mosaic dot | dot -Tpng > layout.png
  mosaic dot --svg -o layout.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				dot := render.ToDOT(ws.Layout(), render.Options{Detailed: detailed})
				if !svg {
					return writeOutput(output, []byte(dot))
				}

				prog := newProgress(c.Logger)
				data, err := render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
				prog.done("Rendered SVG", "bytes", len(data))
				return writeOutput(output, data)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG with Graphviz")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node IDs, bounds and lock state")
	return cmd
}

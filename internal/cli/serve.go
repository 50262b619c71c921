package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/server"
	"github.com/matzehuels/mosaic/internal/workspace"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout over HTTP",
		Long: `Serve the layout as a JSON HTTP API. Every mutation is saved to the
configured store. Stop with Ctrl+C.`,
		Example: `  mosaic serve --addr :8080
  curl -X POST localhost:8080/layout/split -d '{"tile":"editor","direction":"v"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				return server.New(ws, c.Logger).ListenAndServe(cmd.Context(), addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

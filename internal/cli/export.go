package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/workspace"
	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		asTree bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the layout as JSON",
		Long: `Write the layout as JSON. By default the full snapshot (node arena, root
and ID counter) is written; --tree writes the compact tree form instead,
which drops node IDs and lock flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				data, err := exportData(ws, asTree)
				if err != nil {
					return err
				}
				return writeOutput(output, data)
			})
		},
	}

	cmd.Flags().BoolVar(&asTree, "tree", false, "export the tree form")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func exportData(ws *workspace.Workspace, asTree bool) ([]byte, error) {
	if !asTree {
		data, err := ws.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return data, nil
	}
	tree, ok := ws.Tree()
	if !ok {
		return []byte("null"), nil
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return data, nil
}

// writeOutput writes data plus a newline to path, or to stdout when path is
// empty or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Wrote layout")
	printFile(path)
	return nil
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var asTree bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the layout from JSON",
		Long: `Replace the layout with a snapshot written by "mosaic export", or with a
tree when --tree is set. "-" reads from stdin. Snapshots are validated
before anything is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if asTree {
					var tree *mosaic.Tree
					if err := json.Unmarshal(data, &tree); err != nil {
						return mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "decode tree")
					}
					err = ws.Replace(cmd.Context(), tree)
				} else {
					err = ws.Restore(cmd.Context(), data)
				}
				if err != nil {
					return err
				}
				printSuccess("Imported %d tiles into %s", len(ws.Tiles()), StyleHighlight.Render(ws.Key()))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asTree, "tree", false, "input is the tree form")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

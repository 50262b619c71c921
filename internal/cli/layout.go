package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/workspace"
	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// withWorkspace opens the workspace, runs fn, and prints hints for coded
// errors.
func (c *CLI) withWorkspace(ctx context.Context, fn func(*workspace.Workspace) error) error {
	ws, closeStore, err := c.openWorkspace(ctx)
	if err != nil {
		printHints(err)
		return err
	}
	defer closeStore()
	if err := fn(ws); err != nil {
		printHints(err)
		return err
	}
	return nil
}

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var (
		preset   string
		treeFile string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [tile]",
		Short: "Create a new layout",
		Long: `Create a new layout and save it.

With a tile argument the layout is that single tile. --preset builds a named
layout from the config file, --tree reads a tree JSON file. Without any of
these a single tile with a generated ID is created.`,
		Example: `  mosaic init editor
  mosaic init --preset ide
  mosaic init --tree layout.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := 0
			for _, set := range []bool{len(args) == 1, preset != "", treeFile != ""} {
				if set {
					sources++
				}
			}
			if sources > 1 {
				return fmt.Errorf("tile argument, --preset and --tree are mutually exclusive")
			}

			tree, err := c.initTree(args, preset, treeFile)
			if err != nil {
				return err
			}

			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if len(ws.Tiles()) > 0 && !force {
					return mosaicerrors.New(mosaicerrors.ErrCodeInvalidOperation,
						"layout %q already exists", ws.Key()).
						WithSuggestions([]string{"mosaic init --force", "mosaic clear"})
				}
				if err := ws.Replace(cmd.Context(), tree); err != nil {
					return err
				}
				printSuccess("Created layout %s", StyleHighlight.Render(ws.Key()))
				fmt.Fprintln(stdout, renderTree(ws.Layout()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "build the layout from a config preset")
	cmd.Flags().StringVar(&treeFile, "tree", "", "read the layout from a tree JSON file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing layout")
	cmd.RegisterFlagCompletionFunc("preset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cfg.PresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) initTree(args []string, preset, treeFile string) (*mosaic.Tree, error) {
	switch {
	case len(args) == 1:
		if err := mosaicerrors.ValidateTileID(args[0]); err != nil {
			return nil, err
		}
		return mosaic.Leaf(mosaic.TileID(args[0])), nil
	case preset != "":
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		return cfg.PresetTree(preset)
	case treeFile != "":
		return readTreeFile(treeFile)
	}
	return mosaic.Leaf(workspace.NewTileID()), nil
}

func readTreeFile(path string) (*mosaic.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	var tree *mosaic.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "decode tree %s", path)
	}
	return tree, nil
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the layout tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				l := ws.Layout()
				fmt.Fprintln(stdout, StyleTitle.Render("Layout "+ws.Key()))
				fmt.Fprintln(stdout, renderTree(l))
				if !l.IsEmpty() {
					fmt.Fprintln(stdout)
					printStats(l, ws.Key())
				} else {
					printNextStep("Create one with", "mosaic init")
				}
				return nil
			})
		},
	}
}

// tilesCommand creates the tiles command.
func (c *CLI) tilesCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List tiles in pre-order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				l := ws.Layout()
				if plain {
					for _, t := range l.AllTiles() {
						fmt.Fprintln(stdout, t)
					}
					return nil
				}
				if l.IsEmpty() {
					printInfo("No tiles")
					return nil
				}
				fmt.Fprintln(stdout, tileTable(l))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one tile ID per line")
	return cmd
}

// splitCommand creates the split command.
func (c *CLI) splitCommand() *cobra.Command {
	var (
		newTile   string
		direction string
		percent   float64
	)

	cmd := &cobra.Command{
		Use:   "split <tile>",
		Short: "Split a tile in two",
		Long: `Split a tile, keeping it as the first (left or top) child and adding a new
tile as the second. The percentage is the first child's share, clamped to
[20, 80].`,
		Example: `  mosaic split editor --new terminal --direction v --percent 70`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := mosaic.ParseDirection(direction)
			if err != nil {
				return mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "--direction")
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				id, err := ws.Split(cmd.Context(), mosaic.TileID(args[0]), dir, mosaic.TileID(newTile), percent)
				if err != nil {
					return err
				}
				printSuccess("Split %s %s, new tile %s", StyleValue.Render(args[0]), dir, StyleHighlight.Render(string(id)))
				return nil
			})
		},
		ValidArgsFunction: c.completeTiles(1),
	}

	cmd.Flags().StringVarP(&newTile, "new", "n", "", "ID of the new tile (default: generated)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "horizontal", "split direction: horizontal|vertical (h|v)")
	cmd.Flags().Float64VarP(&percent, "percent", "p", mosaic.DefaultSplitPercentage, "share of the existing tile")
	return cmd
}

// closeCommand creates the close command.
func (c *CLI) closeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close <tile>",
		Short: "Close a tile; its sibling takes its space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if err := ws.Close(cmd.Context(), mosaic.TileID(args[0])); err != nil {
					return err
				}
				printSuccess("Closed %s", StyleValue.Render(args[0]))
				if len(ws.Tiles()) == 0 {
					printDetail("The layout is now empty")
				}
				return nil
			})
		},
		ValidArgsFunction: c.completeTiles(1),
	}
}

// resizeCommand creates the resize command.
func (c *CLI) resizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <node|tile> <percent>",
		Short: "Set a split's percentage",
		Long: `Set the first child's share of a split. The target is a split node ID, or
a tile whose parent split is resized. The value is clamped to the split's
bounds.`,
		Example: `  mosaic resize node_0 30
  mosaic resize editor 65`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "percent %q", args[1])
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				applied, err := ws.Resize(cmd.Context(), args[0], pct)
				if err != nil {
					return err
				}
				printSuccess("Resized %s to %s", StyleValue.Render(args[0]), StyleNumber.Render(formatPercent(applied)))
				if applied != pct {
					printDetail("clamped from %s", formatPercent(pct))
				}
				return nil
			})
		},
		ValidArgsFunction: c.completeTiles(1),
	}
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <dragged> <target> <top|bottom|left|right>",
		Short: "Move a tile next to another tile",
		Long: `Move a tile to one side of a target tile. The dragged tile leaves its place
(its sibling takes over) and the target is split 50/50 with the dragged
tile on the named side.`,
		Example: `  mosaic move console sidebar bottom`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := mosaic.ParseDropZone(args[2])
			if err != nil {
				return mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "zone")
			}
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				if err := ws.Move(cmd.Context(), mosaic.TileID(args[0]), mosaic.TileID(args[1]), zone); err != nil {
					return err
				}
				printSuccess("Moved %s %s of %s", StyleValue.Render(args[0]), zone, StyleValue.Render(args[1]))
				return nil
			})
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 2 {
				return []string{"top", "bottom", "left", "right"}, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeTiles(2)(cmd, args, toComplete)
		},
	}
}

// lockCommand creates the lock or unlock command.
func (c *CLI) lockCommand(locked bool) *cobra.Command {
	use, short, verb := "lock", "Lock a tile or split", "Locked"
	if !locked {
		use, short, verb = "unlock", "Unlock a tile or split", "Unlocked"
	}

	return &cobra.Command{
		Use:   use + " <node|tile>",
		Short: short,
		Long: short + `.

A locked tile cannot be closed and refuses drops. A locked split cannot be
resized. Locked tiles can still be split and moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
				id, err := ws.SetLocked(cmd.Context(), args[0], locked)
				if err != nil {
					return err
				}
				printSuccess("%s %s", verb, StyleValue.Render(args[0]))
				if string(id) != args[0] {
					printDetail("node %s", id)
				}
				return nil
			})
		},
		ValidArgsFunction: c.completeTiles(1),
	}
}

// clearCommand creates the clear command.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			// Bypass the workspace so an unreadable snapshot can still be
			// cleared.
			s, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := mosaic.Clear(cmd.Context(), s, cfg.Key); err != nil {
				return mosaicerrors.Wrap(mosaicerrors.ErrCodeStorage, err, "clear layout %q", cfg.Key)
			}
			printSuccess("Cleared layout %s", StyleHighlight.Render(cfg.Key))
			return nil
		},
	}
}

// presetsCommand lists the configured presets.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List layout presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			for _, name := range cfg.PresetNames() {
				tree, err := cfg.PresetTree(name)
				if err != nil {
					printWarning("%s: %v", name, err)
					continue
				}
				printKeyValue(name, joinTiles(tree.Tiles()))
			}
			return nil
		},
	}
}

// completeTiles completes tile IDs for the first n positional arguments.
func (c *CLI) completeTiles(n int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var tiles []string
		_ = c.withWorkspace(cmd.Context(), func(ws *workspace.Workspace) error {
			for _, t := range ws.Tiles() {
				tiles = append(tiles, string(t))
			}
			return nil
		})
		return tiles, cobra.ShellCompDirectiveNoFileComp
	}
}

func joinTiles(tiles []mosaic.TileID) string {
	out := ""
	for i, t := range tiles {
		if i > 0 {
			out += ", "
		}
		out += string(t)
	}
	return out
}

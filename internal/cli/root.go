package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/store"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mosaic manages tiling layouts of split panes",
		Long: `Mosaic keeps a tiling layout - a binary tree of horizontal and vertical
splits over named tiles - and persists it between runs. Tiles can be split,
closed, resized, locked and moved, from the command line, over HTTP or in an
interactive terminal view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.registerHooks()
			c.applyConfigLogLevel()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mosaic/config.toml)")
	flags.StringVar(&c.key, "key", "", "snapshot key (default from config, \"mosaic-layout\")")
	flags.StringVar(&c.backend, "backend", "", "storage backend: "+strings.Join(store.Backends, "|"))

	root.AddCommand(c.initCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.tilesCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.closeCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.lockCommand(true))
	root.AddCommand(c.lockCommand(false))
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// applyConfigLogLevel lowers the log level when the config asks for more
// detail than the flags did. Config errors surface later, when a command
// actually needs the config.
func (c *CLI) applyConfigLogLevel() {
	cfg, err := c.loadConfig()
	if err != nil {
		return
	}
	level, err := cfg.Level()
	if err != nil {
		c.Logger.Warn("ignoring log_level", "err", err)
		return
	}
	if level < c.Logger.GetLevel() {
		c.SetLogLevel(level)
	}
}

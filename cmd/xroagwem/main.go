// Package main implements xroagwem, a tiling window manager for X11.
// xroagwem keeps one master window on the left and stacks the rest on the
// right, with tagged workspaces, floating windows and a status bar.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/dodorz/xroagwem/internal/theme"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	display    string
	debugMode  bool
	themeName  string
	listThemes bool
	gap        int
	border     int
	noBar      bool
	logFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xroagwem",
		Short: "Tiling window manager for X11",
		Long: `xroagwem - a master/stack tiling window manager for X11

Windows are tiled with one master on the left and a stack on the right.
Each workspace is named by a tag; windows can float or go fullscreen,
and a status bar shows the tags and system load.`,
		Example: `  # Run on $DISPLAY (usually from ~/.xinitrc)
  exec xroagwem

  # Run on a nested Xephyr server with debug logging
  xroagwem --display :1 --debug

  # Run with a specific theme and no bar
  xroagwem --theme dracula --no-bar

  # List all available themes
  xroagwem --list-themes

  # Edit configuration
  xroagwem config edit

  # List all keybindings
  xroagwem keybinds list`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				for _, t := range theme.IDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&display, "display", "", "X display to manage (default: $DISPLAY)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use the configured colors")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().IntVar(&gap, "gap", -1, "Gap around tiled windows in pixels (default: from config)")
	rootCmd.PersistentFlags().IntVar(&border, "border", -1, "Window border width in pixels (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&noBar, "no-bar", false, "Hide the status bar")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto", "Log format: auto, text, json")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage xroagwem configuration",
		Long:  `Manage xroagwem configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the xroagwem configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the xroagwem configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the xroagwem configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults()
		},
	}

	var showFormat string
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration xroagwem would run with, after defaults
are filled in and command line overrides applied.`,
		Example: `  # As TOML
  xroagwem config show

  # As JSON for scripting
  xroagwem config show --format json | jq .layout`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfig(os.Stdout, showFormat)
		},
	}
	configShowCmd.Flags().StringVar(&showFormat, "format", "toml", "Output format: toml, yaml, json")

	configValidateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file",
		Long: `Check a configuration file for errors and warnings.

With no argument the user's configuration file is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return validateConfigFile(os.Stdout, path)
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configShowCmd, configValidateCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect xroagwem keybinding configuration`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured key and pointer bindings in formatted tables`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listKeybindings()
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long: `Display only keybindings that differ from defaults

Shows a comparison of default and custom keybindings.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listCustomKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)

	rootCmd.AddCommand(configCmd, keybindsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

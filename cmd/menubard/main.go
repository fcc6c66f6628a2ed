// Package main is the entry point for the menubard tray popup daemon.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	appID   = "io.github.jmylchreest.menubard"
	appName = "menubard"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var globalOpts struct {
	verbose    bool
	configPath string
	theme      string
	detached   bool
	preload    bool
}

var rootCmd = &cobra.Command{
	Use:   "menubard [dir]",
	Short: "Tray icon that toggles a popup window",
	Long: `menubard puts an icon in the system tray (StatusNotifierItem) and shows a
popup window next to it when the icon is clicked. Clicking again, or moving
focus elsewhere, hides the popup.

The optional dir argument is the content directory. It holds index.html (or
index.ui for a GtkBuilder layout) and IconTemplate.png; it defaults to the
directory containing the executable.

Options are read from ~/.config/menubar/menubar.toml and reloaded when the
file changes. A running daemon can be driven with the menubar command.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	rootCmd.Flags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.Flags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/menubar/menubar.toml)")
	rootCmd.Flags().StringVar(&globalOpts.theme, "theme", "",
		"Popup theme name, overriding the config file")
	rootCmd.Flags().BoolVar(&globalOpts.detached, "detached", false,
		"Start detached: the popup stays open when it loses focus")
	rootCmd.Flags().BoolVar(&globalOpts.preload, "preload", false,
		"Create the popup window at startup instead of on first click")
}

// setupLogger configures the global slog logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

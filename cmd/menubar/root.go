// Package main provides the CLI for controlling a running menubard.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/menubar/internal/dbus"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var globalOpts struct {
	verbose bool
	timeout time.Duration
}

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "menubar",
	Short: "Control a running menubard",
	Long: `menubar talks to a running menubard over the session bus.

It can show, hide and toggle the popup, detach it so that it stays open
when focus moves elsewhere, read and change options at runtime, and print
the daemon's state.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&globalOpts.timeout, "timeout", 5*time.Second,
		"Timeout for calls to the daemon")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	// Log to stderr so stdout is clean for output
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// withClient connects to the daemon and runs fn with a call timeout.
func withClient(fn func(ctx context.Context, c *dbus.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), globalOpts.timeout)
	defer cancel()

	c, err := dbus.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	running, err := c.Running(ctx)
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("menubard is not running (no owner for %s)", dbus.BusName)
	}

	logger.Debug("connected to daemon", "name", dbus.BusName)
	return fn(ctx, c)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/menubar/internal/dbus"
	"github.com/jmylchreest/menubar/internal/geometry"
)

var showOpts struct {
	bounds string
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the popup",
	Long: `Show the popup window, creating it if needed.

Without --bounds the popup is placed using the last tray position seen by
the daemon, or a screen corner if the tray has not been clicked yet.

Examples:
  # Show next to a tray icon at x=1500, y=0 that is 24x24
  menubar show --bounds 1500,0,24,24`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var bounds *geometry.Rect
		if showOpts.bounds != "" {
			b, err := geometry.ParseRect(showOpts.bounds)
			if err != nil {
				return err
			}
			bounds = &b
		}
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Show(ctx, bounds)
		})
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Hide(ctx)
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Show the popup if hidden, hide it if visible",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Toggle(ctx)
		})
	},
}

var detachCmd = &cobra.Command{
	Use:   "detach",
	Short: "Keep the popup open when it loses focus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Detach(ctx)
		})
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Hide the popup again when it loses focus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Attach(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd, hideCmd, toggleCmd, detachCmd, attachCmd)

	showCmd.Flags().StringVar(&showOpts.bounds, "bounds", "",
		"Tray icon rectangle as x,y,width,height (or x,y)")
}

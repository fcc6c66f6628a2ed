package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/menubar/internal/dbus"
	"github.com/jmylchreest/menubar/internal/menubar"
)

var statusOpts struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the running daemon",
	Long: `Print whether the popup exists and is visible, where it was last shown,
and the tray bounds the daemon has cached.

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			st, err := c.Status(ctx)
			if err != nil {
				return err
			}
			if statusOpts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), renderStatus(st, time.Now()))
			return err
		})
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow popup lifecycle events",
	Long: `Print one line per lifecycle event (create-window, show, hide, ...)
until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		c, err := dbus.Connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		events, err := c.Events(ctx)
		if err != nil {
			return err
		}
		for ev := range events {
			fmt.Fprintln(cmd.OutOrStdout(), formatEvent(ev, time.Now()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, eventsCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false,
		"Output as JSON")
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	visibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	hiddenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderStatus formats a status snapshot for terminals.
func renderStatus(st menubar.Status, now time.Time) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	state := st.State
	switch state {
	case menubar.StateVisible.String():
		state = visibleStyle.Render(state)
	case menubar.StateHidden.String():
		state = hiddenStyle.Render(state)
	default:
		state = mutedStyle.Render(state)
	}
	if !st.Ready {
		state += mutedStyle.Render(" (not ready)")
	}
	row("State", state)

	if st.WindowID != "" {
		row("Window", st.WindowID)
	}

	mode := "attached"
	if st.Detached {
		mode = "detached"
	}
	row("Mode", mode)
	row("Anchor", string(st.Anchor))

	if st.Position != nil {
		row("Position", fmt.Sprintf("%d,%d", st.Position.X, st.Position.Y))
	}
	if st.CachedBounds != nil {
		r := st.CachedBounds
		row("Tray bounds", fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height))
	} else {
		row("Tray bounds", mutedStyle.Render("unknown"))
	}

	if !st.LastShown.IsZero() {
		row("Last shown", humanize.RelTime(st.LastShown, now, "ago", "from now"))
	} else {
		row("Last shown", mutedStyle.Render("never"))
	}

	return b.String()
}

// formatEvent renders one event line.
func formatEvent(ev dbus.EventMessage, now time.Time) string {
	var parts []string
	parts = append(parts, now.Format("15:04:05"), string(ev.Type))
	if ev.WindowID != "" {
		parts = append(parts, "window="+ev.WindowID)
	}
	if ev.Type == menubar.EventShow || ev.Type == menubar.EventAfterShow {
		parts = append(parts, fmt.Sprintf("at=%d,%d", ev.X, ev.Y))
	}
	return strings.Join(parts, " ")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/dbus"
)

var optionsOpts struct {
	format string
}

var setOpts struct {
	save       bool
	configPath string
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print one option of the running daemon",
	Long: `Print the current value of one option. Unset optional values print as
"none".

Option names:
  ` + joinNames(),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			v, err := c.GetOption(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Change one option of the running daemon",
	Long: `Change one option at runtime. Changes to tooltip, icon, theme and
show-on-all-workspaces take effect immediately; window size and title apply
to the next popup window. Use "none" to clear x, y and other optional values.

With --save the value is also written to the config file.

Examples:
  menubar set tooltip "Build status"
  menubar set window-position trayBottomCenter
  menubar set x none`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]
		if err := withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.SetOption(ctx, name, value)
		}); err != nil {
			return err
		}
		if setOpts.save {
			return saveOption(setOpts.configPath, name, value)
		}
		return nil
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print all effective options of the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			opts, err := c.Options(ctx)
			if err != nil {
				return err
			}
			return writeOptions(cmd.OutOrStdout(), opts, optionsOpts.format)
		})
	},
}

func init() {
	rootCmd.AddCommand(getCmd, setCmd, optionsCmd)

	optionsCmd.Flags().StringVarP(&optionsOpts.format, "output", "o", "toml",
		"Output format (toml, yaml, json)")
	setCmd.Flags().BoolVar(&setOpts.save, "save", false,
		"Also write the value to the config file")
	setCmd.Flags().StringVar(&setOpts.configPath, "config", "",
		"Config file for --save (default: ~/.config/menubar/menubar.toml)")
}

// writeOptions encodes opts in the given format.
func writeOptions(w io.Writer, opts *config.Options, format string) error {
	switch format {
	case "toml", "":
		enc := toml.NewEncoder(w)
		return enc.Encode(opts)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	default:
		return fmt.Errorf("unknown output format %q (want toml, yaml or json)", format)
	}
}

// saveOption applies one option to the config file on disk. The daemon
// reloads the file, which is harmless since the value is already applied.
func saveOption(path, name, value string) error {
	opts, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := opts.SetString(name, value); err != nil {
		return err
	}
	if err := opts.Save(path); err != nil {
		return err
	}
	logger.Debug("saved option", "name", name, "path", path)
	return nil
}

func joinNames() string {
	return strings.Join(config.Names(), ", ")
}

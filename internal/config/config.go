// Package config holds the menubar configuration record and its defaulting rules.
package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/jmylchreest/menubar/internal/geometry"
)

// Default configuration values.
const (
	DefaultWidth     = 400
	DefaultHeight    = 400
	DefaultTheme     = "default"
	DefaultIndexFile = "index.html"
	DefaultIconFile  = "IconTemplate.png"
)

var (
	// ErrUnknownOption is returned when an option name is not recognised.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidValue is returned when an option value has the wrong type or range.
	ErrInvalidValue = errors.New("invalid option value")
)

// Options is the menubar configuration record.
// The TOML keys double as the option names accepted by Get and Set.
type Options struct {
	Dir                 string          `toml:"dir,omitempty" json:"dir,omitempty" yaml:"dir,omitempty"`
	Index               string          `toml:"index,omitempty" json:"index,omitempty" yaml:"index,omitempty"`
	Width               int             `toml:"width,omitempty" json:"width,omitempty" yaml:"width,omitempty"`
	Height              int             `toml:"height,omitempty" json:"height,omitempty" yaml:"height,omitempty"`
	Tooltip             string          `toml:"tooltip,omitempty" json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	WindowPosition      geometry.Anchor `toml:"window-position,omitempty" json:"window-position,omitempty" yaml:"window-position,omitempty"`
	ShowDockIcon        bool            `toml:"show-dock-icon" json:"show-dock-icon" yaml:"show-dock-icon"`
	Detached            bool            `toml:"detached" json:"detached" yaml:"detached"`
	PreloadWindow       bool            `toml:"preload-window" json:"preload-window" yaml:"preload-window"`
	AlwaysOnTop         bool            `toml:"always-on-top" json:"always-on-top" yaml:"always-on-top"`
	ShowOnAllWorkspaces *bool           `toml:"show-on-all-workspaces,omitempty" json:"show-on-all-workspaces,omitempty" yaml:"show-on-all-workspaces,omitempty"`
	ShowOnRightClick    bool            `toml:"show-on-right-click" json:"show-on-right-click" yaml:"show-on-right-click"`
	X                   *int            `toml:"x,omitempty" json:"x,omitempty" yaml:"x,omitempty"`
	Y                   *int            `toml:"y,omitempty" json:"y,omitempty" yaml:"y,omitempty"`
	Icon                string          `toml:"icon,omitempty" json:"icon,omitempty" yaml:"icon,omitempty"`
	Title               string          `toml:"title,omitempty" json:"title,omitempty" yaml:"title,omitempty"`
	Resizable           *bool           `toml:"resizable,omitempty" json:"resizable,omitempty" yaml:"resizable,omitempty"`
	Theme               string          `toml:"theme,omitempty" json:"theme,omitempty" yaml:"theme,omitempty"`
}

// VisibleOnAllWorkspaces reports whether the popup should follow the user
// across workspaces. Only an explicit false disables it.
func (o *Options) VisibleOnAllWorkspaces() bool {
	return o.ShowOnAllWorkspaces == nil || *o.ShowOnAllWorkspaces
}

// IsResizable reports whether the popup may be resized. Unset means true.
func (o *Options) IsResizable() bool {
	return o.Resizable == nil || *o.Resizable
}

// Clone returns a deep copy of the options.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	c.ShowOnAllWorkspaces = cloneBool(o.ShowOnAllWorkspaces)
	c.Resizable = cloneBool(o.Resizable)
	c.X = cloneInt(o.X)
	c.Y = cloneInt(o.Y)
	return &c
}

// Validate checks values that cannot be defaulted away.
// Zero values are accepted; Normalize fills them in.
func (o *Options) Validate() error {
	if o.WindowPosition != "" && !o.WindowPosition.Valid() {
		return fmt.Errorf("%w: window-position %q, must be one of: %v",
			ErrInvalidValue, o.WindowPosition, geometry.ValidAnchors())
	}
	if o.Width < 0 {
		return fmt.Errorf("%w: width must not be negative, got %d", ErrInvalidValue, o.Width)
	}
	if o.Height < 0 {
		return fmt.Errorf("%w: height must not be negative, got %d", ErrInvalidValue, o.Height)
	}
	if o.Index != "" {
		if _, err := url.Parse(o.Index); err != nil {
			return fmt.Errorf("%w: index: %w", ErrInvalidValue, err)
		}
	}
	return nil
}

// Bool returns a pointer to b, for the optional flags.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for the optional coordinates.
func Int(n int) *int { return &n }

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	return Bool(*b)
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	return Int(*n)
}

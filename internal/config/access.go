package config

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jmylchreest/menubar/internal/geometry"
)

// Option names accepted by Get, Set and SetString.
const (
	OptDir                 = "dir"
	OptIndex               = "index"
	OptWidth               = "width"
	OptHeight              = "height"
	OptTooltip             = "tooltip"
	OptWindowPosition      = "window-position"
	OptShowDockIcon        = "show-dock-icon"
	OptDetached            = "detached"
	OptPreloadWindow       = "preload-window"
	OptAlwaysOnTop         = "always-on-top"
	OptShowOnAllWorkspaces = "show-on-all-workspaces"
	OptShowOnRightClick    = "show-on-right-click"
	OptX                   = "x"
	OptY                   = "y"
	OptIcon                = "icon"
	OptTitle               = "title"
	OptResizable           = "resizable"
	OptTheme               = "theme"
)

// accessor reads and writes one option by name.
type accessor struct {
	get   func(o *Options) any
	set   func(o *Options, v any) error
	parse func(raw string) (any, error)
}

var accessors = map[string]accessor{
	OptDir:                 dirOption(func(o *Options) *string { return &o.Dir }),
	OptIndex:               stringOption(func(o *Options) *string { return &o.Index }),
	OptWidth:               sizeOption(func(o *Options) *int { return &o.Width }),
	OptHeight:              sizeOption(func(o *Options) *int { return &o.Height }),
	OptTooltip:             stringOption(func(o *Options) *string { return &o.Tooltip }),
	OptWindowPosition:      anchorOption(func(o *Options) *geometry.Anchor { return &o.WindowPosition }),
	OptShowDockIcon:        boolOption(func(o *Options) *bool { return &o.ShowDockIcon }),
	OptDetached:            boolOption(func(o *Options) *bool { return &o.Detached }),
	OptPreloadWindow:       boolOption(func(o *Options) *bool { return &o.PreloadWindow }),
	OptAlwaysOnTop:         boolOption(func(o *Options) *bool { return &o.AlwaysOnTop }),
	OptShowOnAllWorkspaces: optionalBoolOption(func(o *Options) **bool { return &o.ShowOnAllWorkspaces }),
	OptShowOnRightClick:    boolOption(func(o *Options) *bool { return &o.ShowOnRightClick }),
	OptX:                   optionalIntOption(func(o *Options) **int { return &o.X }),
	OptY:                   optionalIntOption(func(o *Options) **int { return &o.Y }),
	OptIcon:                stringOption(func(o *Options) *string { return &o.Icon }),
	OptTitle:               stringOption(func(o *Options) *string { return &o.Title }),
	OptResizable:           optionalBoolOption(func(o *Options) **bool { return &o.Resizable }),
	OptTheme:               stringOption(func(o *Options) *string { return &o.Theme }),
}

// Names returns every option name in sorted order.
func Names() []string {
	names := make([]string, 0, len(accessors))
	for name := range accessors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the current value of the named option.
// Unset optional values (x, y, show-on-all-workspaces, resizable) are nil.
func (o *Options) Get(name string) (any, error) {
	a, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return a.get(o), nil
}

// Set assigns a typed value to the named option. Integers may arrive as any
// Go integer type or as a whole float64 (decoded JSON); optional values
// accept nil to unset them.
func (o *Options) Set(name string, value any) error {
	a, err := lookup(name)
	if err != nil {
		return err
	}
	if err := a.set(o, value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// SetString parses raw according to the option's type and assigns it.
func (o *Options) SetString(name, raw string) error {
	a, err := lookup(name)
	if err != nil {
		return err
	}
	v, err := a.parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return o.Set(name, v)
}

// Map returns every option keyed by name.
func (o *Options) Map() map[string]any {
	m := make(map[string]any, len(accessors))
	for name, a := range accessors {
		m[name] = a.get(o)
	}
	return m
}

// Diff returns the sorted names of options whose values differ between o and other.
func (o *Options) Diff(other *Options) []string {
	var changed []string
	for _, name := range Names() {
		a := accessors[name]
		if a.get(o) != a.get(other) {
			changed = append(changed, name)
		}
	}
	return changed
}

func lookup(name string) (accessor, error) {
	if a, ok := accessors[name]; ok {
		return a, nil
	}
	if matches := fuzzy.Find(name, Names()); len(matches) > 0 {
		return accessor{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownOption, name, matches[0].Str)
	}
	return accessor{}, fmt.Errorf("%w %q", ErrUnknownOption, name)
}

func stringOption(field func(*Options) *string) accessor {
	return accessor{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) error {
			s, ok := v.(string)
			if !ok {
				return typeError("string", v)
			}
			*field(o) = s
			return nil
		},
		parse: func(raw string) (any, error) { return raw, nil },
	}
}

// dirOption stores the directory as an absolute path.
func dirOption(field func(*Options) *string) accessor {
	return accessor{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) error {
			s, ok := v.(string)
			if !ok {
				return typeError("string", v)
			}
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%w: directory must not be empty", ErrInvalidValue)
			}
			*field(o) = absPath(s)
			return nil
		},
		parse: func(raw string) (any, error) { return raw, nil },
	}
}

// sizeOption holds a window dimension, which must be positive.
func sizeOption(field func(*Options) *int) accessor {
	return accessor{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) error {
			n, ok := toInt(v)
			if !ok {
				return typeError("integer", v)
			}
			if n <= 0 {
				return fmt.Errorf("%w: %d, must be positive", ErrInvalidValue, n)
			}
			*field(o) = n
			return nil
		},
		parse: parseInt,
	}
}

func optionalIntOption(field func(*Options) **int) accessor {
	return accessor{
		get: func(o *Options) any {
			if p := *field(o); p != nil {
				return *p
			}
			return nil
		},
		set: func(o *Options, v any) error {
			if v == nil {
				*field(o) = nil
				return nil
			}
			n, ok := toInt(v)
			if !ok {
				return typeError("integer or nil", v)
			}
			*field(o) = Int(n)
			return nil
		},
		parse: func(raw string) (any, error) {
			if isUnset(raw) {
				return nil, nil
			}
			return parseInt(raw)
		},
	}
}

func boolOption(field func(*Options) *bool) accessor {
	return accessor{
		get: func(o *Options) any { return *field(o) },
		set: func(o *Options, v any) error {
			b, ok := v.(bool)
			if !ok {
				return typeError("bool", v)
			}
			*field(o) = b
			return nil
		},
		parse: parseBool,
	}
}

func optionalBoolOption(field func(*Options) **bool) accessor {
	return accessor{
		get: func(o *Options) any {
			if p := *field(o); p != nil {
				return *p
			}
			return nil
		},
		set: func(o *Options, v any) error {
			if v == nil {
				*field(o) = nil
				return nil
			}
			b, ok := v.(bool)
			if !ok {
				return typeError("bool or nil", v)
			}
			*field(o) = Bool(b)
			return nil
		},
		parse: func(raw string) (any, error) {
			if isUnset(raw) {
				return nil, nil
			}
			return parseBool(raw)
		},
	}
}

func anchorOption(field func(*Options) *geometry.Anchor) accessor {
	return accessor{
		get: func(o *Options) any { return string(*field(o)) },
		set: func(o *Options, v any) error {
			var a geometry.Anchor
			switch t := v.(type) {
			case string:
				a = geometry.Anchor(t)
			case geometry.Anchor:
				a = t
			default:
				return typeError("anchor name", v)
			}
			if !a.Valid() {
				return fmt.Errorf("%w: %q, must be one of: %v", ErrInvalidValue, a, geometry.ValidAnchors())
			}
			*field(o) = a
			return nil
		},
		parse: func(raw string) (any, error) { return raw, nil },
	}
}

func parseInt(raw string) (any, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
	}
	return n, nil
}

func parseBool(raw string) (any, error) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
	}
	return b, nil
}

func isUnset(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "none", "null", "unset":
		return true
	}
	return false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func typeError(want string, got any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrInvalidValue, want, got)
}

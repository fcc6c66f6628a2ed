package menubar

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/geometry"
)

// GetOption returns the current value of a configuration option.
func (m *Menubar) GetOption(name string) (any, error) {
	return m.opts.Get(name)
}

// SetOption assigns a configuration option and applies its live effect.
func (m *Menubar) SetOption(name string, value any) error {
	if err := m.opts.Set(name, value); err != nil {
		return err
	}
	return m.applyOption(name)
}

// SetOptionString parses raw for the option's type, then behaves like SetOption.
func (m *Menubar) SetOptionString(name, raw string) error {
	if err := m.opts.SetString(name, raw); err != nil {
		return err
	}
	return m.applyOption(name)
}

// Options returns a copy of the configuration record.
func (m *Menubar) Options() *config.Options {
	return m.opts.Clone()
}

// Detach stops the popup from hiding when it loses focus.
func (m *Menubar) Detach() {
	m.opts.Detached = true
}

// Attach restores hide-on-blur.
func (m *Menubar) Attach() {
	m.opts.Detached = false
}

// Reconfigure applies the options that differ between two versions of the
// configuration source and returns their names. Options changed at runtime
// and untouched in the source keep their live value. A nil prev applies
// every option that differs from the live configuration. Errors from
// individual options are joined.
func (m *Menubar) Reconfigure(prev, next *config.Options) ([]string, error) {
	if prev == nil {
		prev = m.opts
	}
	changed := prev.Diff(next)
	var errs []error
	for _, name := range changed {
		v, err := next.Get(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := m.SetOption(name, v); err != nil {
			errs = append(errs, err)
		}
	}
	return changed, errors.Join(errs...)
}

// applyOption pushes options with a visible effect to the widgets that
// already exist. Everything else is read on next use.
func (m *Menubar) applyOption(name string) error {
	switch name {
	case config.OptTooltip:
		if m.tray != nil {
			m.tray.SetTooltip(m.opts.Tooltip)
		}
	case config.OptIcon, config.OptDir:
		if setter, ok := m.tray.(IconSetter); ok {
			if err := setter.SetIcon(m.iconPath()); err != nil {
				return fmt.Errorf("failed to update icon: %w", err)
			}
		}
	case config.OptShowOnRightClick:
		if m.ready {
			m.wireClick(m.clickKind())
		}
	case config.OptShowOnAllWorkspaces:
		if m.window != nil {
			m.window.SetVisibleOnAllWorkspaces(m.opts.VisibleOnAllWorkspaces())
		}
	case config.OptTheme:
		if m.onTheme != nil {
			m.onTheme(m.opts.Theme)
		}
	}
	return nil
}

// Status is a snapshot of the menubar for reporting.
type Status struct {
	Ready        bool            `json:"ready"`
	State        string          `json:"state"`
	WindowID     string          `json:"window_id,omitempty"`
	Detached     bool            `json:"detached"`
	Anchor       geometry.Anchor `json:"anchor"`
	CachedBounds *geometry.Rect  `json:"cached_bounds,omitempty"`
	Position     *geometry.Point `json:"position,omitempty"`
	LastShown    time.Time       `json:"last_shown,omitzero"`
}

// Status returns the current state snapshot.
func (m *Menubar) Status() Status {
	s := Status{
		Ready:        m.ready,
		State:        m.State().String(),
		WindowID:     m.windowID,
		Detached:     m.opts.Detached,
		Anchor:       m.opts.WindowPosition,
		CachedBounds: m.CachedBounds(),
		LastShown:    m.lastShown,
	}
	if m.lastPosition != nil && m.window != nil {
		p := *m.lastPosition
		s.Position = &p
	}
	return s
}

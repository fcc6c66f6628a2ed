package menubar

import (
	"time"

	"github.com/jmylchreest/menubar/internal/geometry"
)

// clicked handles every wired tray activation.
func (m *Menubar) clicked(a Activation) {
	if a.HasModifier() {
		m.HideWindow()
		return
	}
	if m.State() == StateVisible {
		m.HideWindow()
		return
	}
	if err := m.ShowWindow(a.Bounds); err != nil {
		m.logger.Error("failed to show window", "error", err)
	}
}

// Toggle hides a visible popup and shows a hidden one, like a plain click.
func (m *Menubar) Toggle(bounds *geometry.Rect) error {
	if m.State() == StateVisible {
		m.HideWindow()
		return nil
	}
	return m.ShowWindow(bounds)
}

// ShowWindow creates the popup if needed, positions it and shows it.
// bounds may be nil; the last cached tray bounds are used instead.
func (m *Menubar) ShowWindow(bounds *geometry.Rect) error {
	if !m.ready {
		return ErrNotReady
	}
	if err := m.ensureWindow(); err != nil {
		return err
	}

	id := m.windowID
	pos := m.resolvePosition(bounds)

	m.emit(Event{Type: EventShow, WindowID: id, Position: &pos})

	m.window.SetPosition(pos.X, pos.Y)
	m.window.Show()
	m.lastPosition = &pos
	m.lastShown = time.Now()

	m.logger.Debug("window shown", "window_id", id, "x", pos.X, "y", pos.Y)
	m.emit(Event{Type: EventAfterShow, WindowID: id, Position: &pos})
	return nil
}

// HideWindow hides the popup. It does nothing when there is no window, the
// window is already hidden, or the popup is detached.
func (m *Menubar) HideWindow() {
	if m.window == nil || m.opts.Detached || !m.window.IsVisible() {
		return
	}

	id := m.windowID
	m.emit(Event{Type: EventHide, WindowID: id})
	m.window.Hide()
	m.logger.Debug("window hidden", "window_id", id)
	m.emit(Event{Type: EventAfterHide, WindowID: id})
}

// resolvePosition picks the trigger rectangle and anchor and returns the
// window origin with any x/y overrides applied. A rectangle whose x is 0 is
// treated as missing.
func (m *Menubar) resolvePosition(bounds *geometry.Rect) geometry.Point {
	trigger := bounds
	switch {
	case usable(bounds):
		b := *bounds
		m.cachedBounds = &b
	case m.cachedBounds != nil:
		trigger = m.cachedBounds
	default:
		if bp, ok := m.tray.(BoundsProvider); ok {
			if b, ok := bp.Bounds(); ok {
				trigger = &b
			}
		}
	}

	anchor := m.opts.WindowPosition
	if !usable(trigger) && anchor.IsTrayRelative() {
		anchor = geometry.FallbackCorner(m.goos)
	}

	var pos geometry.Point
	if m.positioner != nil {
		pos = m.positioner.Calculate(anchor, trigger)
	}

	if m.opts.X != nil {
		pos.X = *m.opts.X
	}
	if m.opts.Y != nil {
		pos.Y = *m.opts.Y
	}

	m.logger.Debug("position resolved", "anchor", anchor, "x", pos.X, "y", pos.Y)
	return pos
}

func usable(r *geometry.Rect) bool {
	return r != nil && r.X != 0
}

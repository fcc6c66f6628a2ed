package menubar

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// windowOptions merges the configuration into creation parameters.
// The window always starts hidden.
func (m *Menubar) windowOptions() WindowOptions {
	return WindowOptions{
		Width:       m.opts.Width,
		Height:      m.opts.Height,
		Title:       m.opts.Title,
		Resizable:   m.opts.IsResizable(),
		AlwaysOnTop: m.opts.AlwaysOnTop,
		Frame:       m.opts.Detached,
		Show:        false,
	}
}

// ensureWindow creates the popup if there is none.
func (m *Menubar) ensureWindow() error {
	if m.window != nil {
		return nil
	}

	m.emit(Event{Type: EventCreateWindow})

	w := m.supplied
	m.supplied = nil
	if w == nil {
		if m.newWindow == nil {
			return ErrNoWindowFactory
		}
		var err error
		w, err = m.newWindow(m.windowOptions())
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
	}

	id := ulid.Make().String()
	m.window = w
	m.windowID = id
	if m.newPositioner != nil {
		m.positioner = m.newPositioner(w)
	}

	// Callbacks from a window that has since been replaced are ignored.
	w.OnClose(func() {
		if m.window != w {
			return
		}
		m.windowClosed(id)
	})
	w.OnBlur(func() {
		if m.window != w {
			return
		}
		m.windowBlurred(id)
	})

	if m.opts.VisibleOnAllWorkspaces() {
		w.SetVisibleOnAllWorkspaces(true)
	}

	m.logger.Debug("window created", "window_id", id)
	m.emit(Event{Type: EventAfterCreateWindow, WindowID: id, Window: w})

	if err := w.LoadURL(m.opts.Index); err != nil {
		return fmt.Errorf("failed to load %s: %w", m.opts.Index, err)
	}
	return nil
}

func (m *Menubar) windowClosed(id string) {
	m.window = nil
	m.windowID = ""
	m.positioner = nil
	m.logger.Debug("window closed", "window_id", id)
	m.emit(Event{Type: EventAfterClose, WindowID: id})
}

func (m *Menubar) windowBlurred(id string) {
	if m.opts.AlwaysOnTop || m.opts.Detached {
		m.emit(Event{Type: EventFocusLost, WindowID: id})
		return
	}
	m.HideWindow()
}

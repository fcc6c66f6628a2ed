package display

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"

	"github.com/jmylchreest/menubar/internal/geometry"
)

// Fallback work area when no display is connected.
const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// Screen reports monitor geometry from the default GDK display.
type Screen struct {
	logger *slog.Logger
}

// NewScreen creates a screen backed by the default display.
func NewScreen(logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen{logger: logger}
}

// WorkArea returns the geometry of the monitor containing near, or of the
// first monitor when near is nil or off-screen.
func (s *Screen) WorkArea(near *geometry.Point) geometry.Rect {
	_, area := s.MonitorAt(near)
	return area
}

// MonitorAt returns the monitor containing p along with its geometry.
// The monitor is nil when no display is available.
func (s *Screen) MonitorAt(p *geometry.Point) (*gdk.Monitor, geometry.Rect) {
	monitors, areas := s.monitors()
	i := geometry.AreaFor(areas, p)
	if i < 0 {
		s.logger.Warn("no monitors available, using fallback work area")
		return nil, geometry.Rect{Width: fallbackWidth, Height: fallbackHeight}
	}
	return monitors[i], areas[i]
}

func (s *Screen) monitors() ([]*gdk.Monitor, []geometry.Rect) {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil, nil
	}

	list := display.Monitors()
	if list == nil {
		return nil, nil
	}

	n := list.NItems()
	monitors := make([]*gdk.Monitor, 0, n)
	areas := make([]geometry.Rect, 0, n)
	for i := uint(0); i < n; i++ {
		m := wrapMonitor(list.Item(i))
		if m == nil {
			continue
		}
		g := m.Geometry()
		monitors = append(monitors, m)
		areas = append(areas, geometry.Rect{X: g.X(), Y: g.Y(), Width: g.Width(), Height: g.Height()})
	}
	return monitors, areas
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// gotk4 does not export its own wrapMonitor.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// gdk.Monitor embeds a *coreglib.Object, so the layouts match.
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

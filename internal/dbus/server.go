package dbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/menubar/internal/menubar"
)

// Dispatcher runs fn on the goroutine that owns the controller.
type Dispatcher func(fn func())

// Server implements the io.github.jmylchreest.Menubar D-Bus interface.
type Server struct {
	conn     *dbus.Conn
	ctrl     Controller
	dispatch Dispatcher
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewServer creates a Server. A nil dispatcher calls the controller
// directly on the bus goroutine.
func NewServer(ctrl Controller, dispatch Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Server{
		ctrl:     ctrl,
		dispatch: dispatch,
		logger:   logger,
	}
}

// Start connects to the session bus and exports the control object.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken (is another menubar running?)", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus control service started", "name", BusName, "path", Path)
	return nil
}

// Stop releases the bus name and unexports the object.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		_ = s.conn.Export(nil, Path, Interface)
		_ = s.conn.Export(nil, Path, "org.freedesktop.DBus.Introspectable")
	}

	s.logger.Info("D-Bus control service stopped")
	return nil
}

// ForwardEvents emits an Event signal for each event received until ctx is
// done or events is closed.
func (s *Server) ForwardEvents(ctx context.Context, events <-chan menubar.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := s.EmitEvent(ev); err != nil {
				s.logger.Debug("failed to emit event signal", "type", ev.Type, "error", err)
			}
		}
	}
}

// EmitEvent broadcasts a single lifecycle event.
func (s *Server) EmitEvent(ev menubar.Event) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	var x, y int32
	if ev.Position != nil {
		x, y = int32(ev.Position.X), int32(ev.Position.Y)
	}
	if err := s.conn.Emit(Path, Interface+"."+EventSignal, string(ev.Type), ev.WindowID, x, y); err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", EventSignal, err)
	}
	return nil
}

// call runs fn through the dispatcher and waits for it.
func (s *Server) call(fn func() error) error {
	done := make(chan error, 1)
	s.dispatch(func() { done <- fn() })
	return <-done
}

// ShowWindow shows the popup at the cached or fallback position.
// D-Bus method: ShowWindow() -> nothing
func (s *Server) ShowWindow() *dbus.Error {
	s.logger.Debug("ShowWindow called")
	return toDBusError(s.call(func() error { return s.ctrl.ShowWindow(nil) }))
}

// ShowWindowAt shows the popup next to the given tray rectangle.
// D-Bus method: ShowWindowAt(iiii) -> nothing
func (s *Server) ShowWindowAt(x, y, width, height int32) *dbus.Error {
	s.logger.Debug("ShowWindowAt called", "x", x, "y", y, "width", width, "height", height)
	bounds := boundsFromWire(x, y, width, height)
	return toDBusError(s.call(func() error { return s.ctrl.ShowWindow(bounds) }))
}

// HideWindow hides the popup.
// D-Bus method: HideWindow() -> nothing
func (s *Server) HideWindow() *dbus.Error {
	s.logger.Debug("HideWindow called")
	return toDBusError(s.call(func() error { s.ctrl.HideWindow(); return nil }))
}

// Toggle flips popup visibility.
// D-Bus method: Toggle() -> nothing
func (s *Server) Toggle() *dbus.Error {
	s.logger.Debug("Toggle called")
	return toDBusError(s.call(func() error { return s.ctrl.Toggle(nil) }))
}

// Detach stops the popup from hiding on focus loss.
// D-Bus method: Detach() -> nothing
func (s *Server) Detach() *dbus.Error {
	return toDBusError(s.call(func() error { s.ctrl.Detach(); return nil }))
}

// Attach restores hide-on-focus-loss behaviour.
// D-Bus method: Attach() -> nothing
func (s *Server) Attach() *dbus.Error {
	return toDBusError(s.call(func() error { s.ctrl.Attach(); return nil }))
}

// GetOption returns one option formatted as a string.
// D-Bus method: GetOption(s) -> s
func (s *Server) GetOption(name string) (string, *dbus.Error) {
	var value any
	err := s.call(func() error {
		var err error
		value, err = s.ctrl.GetOption(name)
		return err
	})
	if err != nil {
		return "", toDBusError(err)
	}
	return formatValue(value), nil
}

// SetOption parses and applies one option.
// D-Bus method: SetOption(ss) -> nothing
func (s *Server) SetOption(name, value string) *dbus.Error {
	s.logger.Debug("SetOption called", "name", name, "value", value)
	return toDBusError(s.call(func() error { return s.ctrl.SetOptionString(name, value) }))
}

// Options returns the effective options as a TOML document.
// D-Bus method: Options() -> s
func (s *Server) Options() (string, *dbus.Error) {
	var out []byte
	err := s.call(func() error {
		var err error
		out, err = toml.Marshal(s.ctrl.Options())
		return err
	})
	if err != nil {
		return "", toDBusError(fmt.Errorf("failed to encode options: %w", err))
	}
	return string(out), nil
}

// Status returns the state snapshot as JSON.
// D-Bus method: Status() -> s
func (s *Server) Status() (string, *dbus.Error) {
	var out []byte
	err := s.call(func() error {
		var err error
		out, err = json.Marshal(s.ctrl.Status())
		return err
	})
	if err != nil {
		return "", toDBusError(fmt.Errorf("failed to encode status: %w", err))
	}
	return string(out), nil
}

func controlMethods() []introspect.Method {
	noArgs := func(name string) introspect.Method { return introspect.Method{Name: name} }
	return []introspect.Method{
		noArgs("ShowWindow"),
		{
			Name: "ShowWindowAt",
			Args: []introspect.Arg{
				{Name: "x", Type: "i", Direction: "in"},
				{Name: "y", Type: "i", Direction: "in"},
				{Name: "width", Type: "i", Direction: "in"},
				{Name: "height", Type: "i", Direction: "in"},
			},
		},
		noArgs("HideWindow"),
		noArgs("Toggle"),
		noArgs("Detach"),
		noArgs("Attach"),
		{
			Name: "GetOption",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "value", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "SetOption",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "value", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "Options",
			Args: []introspect.Arg{{Name: "toml", Type: "s", Direction: "out"}},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{{Name: "json", Type: "s", Direction: "out"}},
		},
	}
}

func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: EventSignal,
			Args: []introspect.Arg{
				{Name: "type", Type: "s"},
				{Name: "window_id", Type: "s"},
				{Name: "x", Type: "i"},
				{Name: "y", Type: "i"},
			},
		},
	}
}

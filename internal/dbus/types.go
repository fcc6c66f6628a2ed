package dbus

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/geometry"
	"github.com/jmylchreest/menubar/internal/menubar"
)

const (
	// Interface is the control interface name.
	Interface = "io.github.jmylchreest.Menubar"
	// Path is the control object path.
	Path = "/io/github/jmylchreest/Menubar"
	// BusName is the well-known name claimed by the daemon.
	BusName = "io.github.jmylchreest.Menubar"

	// EventSignal is the member name of the lifecycle signal.
	EventSignal = "Event"

	errUnknownOption = Interface + ".Error.UnknownOption"
	errInvalidValue  = Interface + ".Error.InvalidValue"
	errNotReady      = Interface + ".Error.NotReady"
)

// Controller is the subset of *menubar.Menubar served over the bus.
type Controller interface {
	ShowWindow(bounds *geometry.Rect) error
	HideWindow()
	Toggle(bounds *geometry.Rect) error
	Detach()
	Attach()
	GetOption(name string) (any, error)
	SetOptionString(name, raw string) error
	Options() *config.Options
	Status() menubar.Status
}

// EventMessage is an Event signal as received by a client.
type EventMessage struct {
	Type     menubar.EventType `json:"type"`
	WindowID string            `json:"window_id,omitempty"`
	X        int32             `json:"x"`
	Y        int32             `json:"y"`
}

// boundsFromWire converts ShowWindowAt arguments. A zero-sized rectangle
// carries no information and is reported as absent.
func boundsFromWire(x, y, width, height int32) *geometry.Rect {
	if width == 0 && height == 0 && x == 0 && y == 0 {
		return nil
	}
	return &geometry.Rect{X: int(x), Y: int(y), Width: int(width), Height: int(height)}
}

// formatValue renders an option value as the string SetOption accepts.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "none"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case geometry.Anchor:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// toDBusError maps package errors onto named D-Bus errors.
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}
	name := ""
	switch {
	case errors.Is(err, config.ErrUnknownOption):
		name = errUnknownOption
	case errors.Is(err, config.ErrInvalidValue):
		name = errInvalidValue
	case errors.Is(err, menubar.ErrNotReady):
		name = errNotReady
	default:
		return dbus.MakeFailedError(err)
	}
	return dbus.NewError(name, []any{err.Error()})
}

// fromDBusError turns a reply error back into a package error when the name
// is one of ours, so callers can use errors.Is across the bus.
func fromDBusError(err error) error {
	var dErr dbus.Error
	if !errors.As(err, &dErr) {
		var pErr *dbus.Error
		if !errors.As(err, &pErr) {
			return err
		}
		dErr = *pErr
	}
	var sentinel error
	switch dErr.Name {
	case errUnknownOption:
		sentinel = config.ErrUnknownOption
	case errInvalidValue:
		sentinel = config.ErrInvalidValue
	case errNotReady:
		sentinel = menubar.ErrNotReady
	default:
		return err
	}
	return &remoteError{msg: dErr.Error(), sentinel: sentinel}
}

type remoteError struct {
	msg      string
	sentinel error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.sentinel }

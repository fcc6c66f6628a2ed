package dbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/geometry"
	"github.com/jmylchreest/menubar/internal/menubar"
)

// Client talks to a running daemon.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection.
func Connect(ctx context.Context) (*Client, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn, obj: conn.Object(BusName, Path)}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Running reports whether a daemon currently owns the bus name.
func (c *Client) Running(ctx context.Context) (bool, error) {
	var has bool
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&has)
	if err != nil {
		return false, fmt.Errorf("failed to query bus name: %w", err)
	}
	return has, nil
}

func (c *Client) call(ctx context.Context, method string, args ...any) *dbus.Call {
	return c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
}

func (c *Client) do(ctx context.Context, method string, args ...any) error {
	if err := c.call(ctx, method, args...).Err; err != nil {
		return fmt.Errorf("%s: %w", method, fromDBusError(err))
	}
	return nil
}

func (c *Client) str(ctx context.Context, method string, args ...any) (string, error) {
	var out string
	if err := c.call(ctx, method, args...).Store(&out); err != nil {
		return "", fmt.Errorf("%s: %w", method, fromDBusError(err))
	}
	return out, nil
}

// Show shows the popup, next to bounds when given.
func (c *Client) Show(ctx context.Context, bounds *geometry.Rect) error {
	if bounds == nil {
		return c.do(ctx, "ShowWindow")
	}
	return c.do(ctx, "ShowWindowAt",
		int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height))
}

// Hide hides the popup.
func (c *Client) Hide(ctx context.Context) error { return c.do(ctx, "HideWindow") }

// Toggle flips popup visibility.
func (c *Client) Toggle(ctx context.Context) error { return c.do(ctx, "Toggle") }

// Detach keeps the popup open on focus loss.
func (c *Client) Detach(ctx context.Context) error { return c.do(ctx, "Detach") }

// Attach hides the popup on focus loss again.
func (c *Client) Attach(ctx context.Context) error { return c.do(ctx, "Attach") }

// GetOption reads one option as a string.
func (c *Client) GetOption(ctx context.Context, name string) (string, error) {
	return c.str(ctx, "GetOption", name)
}

// SetOption writes one option from its string form.
func (c *Client) SetOption(ctx context.Context, name, value string) error {
	return c.do(ctx, "SetOption", name, value)
}

// Options fetches the daemon's effective options.
func (c *Client) Options(ctx context.Context) (*config.Options, error) {
	raw, err := c.str(ctx, "Options")
	if err != nil {
		return nil, err
	}
	var opts config.Options
	if err := toml.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	return &opts, nil
}

// Status fetches the daemon's state snapshot.
func (c *Client) Status(ctx context.Context) (menubar.Status, error) {
	var st menubar.Status
	raw, err := c.str(ctx, "Status")
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return st, fmt.Errorf("failed to decode status: %w", err)
	}
	return st, nil
}

// Events subscribes to Event signals. The channel closes when ctx is done.
func (c *Client) Events(ctx context.Context) (<-chan EventMessage, error) {
	if err := c.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember(EventSignal),
	); err != nil {
		return nil, fmt.Errorf("failed to add signal match: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	c.conn.Signal(signals)

	out := make(chan EventMessage, 16)
	go func() {
		defer close(out)
		defer c.conn.RemoveSignal(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				msg, ok := parseEventSignal(sig)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func parseEventSignal(sig *dbus.Signal) (EventMessage, bool) {
	if sig == nil || sig.Name != Interface+"."+EventSignal || len(sig.Body) < 4 {
		return EventMessage{}, false
	}
	typ, ok1 := sig.Body[0].(string)
	id, ok2 := sig.Body[1].(string)
	x, ok3 := sig.Body[2].(int32)
	y, ok4 := sig.Body[3].(int32)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return EventMessage{}, false
	}
	return EventMessage{Type: menubar.EventType(typ), WindowID: id, X: x, Y: y}, true
}

package dbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/geometry"
	"github.com/jmylchreest/menubar/internal/menubar"
)

type fakeController struct {
	calls   []string
	bounds  *geometry.Rect
	showErr error
	opts    *config.Options
	status  menubar.Status
}

func (f *fakeController) ShowWindow(b *geometry.Rect) error {
	f.calls = append(f.calls, "show")
	f.bounds = b
	return f.showErr
}

func (f *fakeController) HideWindow() { f.calls = append(f.calls, "hide") }

func (f *fakeController) Toggle(b *geometry.Rect) error {
	f.calls = append(f.calls, "toggle")
	f.bounds = b
	return nil
}

func (f *fakeController) Detach() { f.calls = append(f.calls, "detach") }
func (f *fakeController) Attach() { f.calls = append(f.calls, "attach") }

func (f *fakeController) GetOption(name string) (any, error) {
	return f.opts.Get(name)
}

func (f *fakeController) SetOptionString(name, raw string) error {
	f.calls = append(f.calls, "set "+name)
	return f.opts.SetString(name, raw)
}

func (f *fakeController) Options() *config.Options { return f.opts.Clone() }
func (f *fakeController) Status() menubar.Status   { return f.status }

func newTestServer() (*Server, *fakeController) {
	ctrl := &fakeController{
		opts: config.Normalize(nil, config.Environment{AppPath: "/opt/app", GOOS: "linux"}),
	}
	return NewServer(ctrl, nil, nil), ctrl
}

func TestServer_VisibilityMethods(t *testing.T) {
	s, ctrl := newTestServer()

	assert.Nil(t, s.ShowWindow())
	assert.Nil(t, ctrl.bounds)

	assert.Nil(t, s.ShowWindowAt(100, 50, 20, 20))
	assert.Equal(t, &geometry.Rect{X: 100, Y: 50, Width: 20, Height: 20}, ctrl.bounds)

	assert.Nil(t, s.ShowWindowAt(0, 0, 0, 0))
	assert.Nil(t, ctrl.bounds)

	assert.Nil(t, s.HideWindow())
	assert.Nil(t, s.Toggle())
	assert.Nil(t, s.Detach())
	assert.Nil(t, s.Attach())

	assert.Equal(t, []string{"show", "show", "show", "hide", "toggle", "detach", "attach"}, ctrl.calls)
}

func TestServer_UsesDispatcher(t *testing.T) {
	ctrl := &fakeController{opts: &config.Options{}}
	var dispatched int
	s := NewServer(ctrl, func(fn func()) {
		dispatched++
		go fn()
	}, nil)

	assert.Nil(t, s.HideWindow())
	assert.Nil(t, s.Toggle())
	assert.Equal(t, 2, dispatched)
	assert.Equal(t, []string{"hide", "toggle"}, ctrl.calls)
}

func TestServer_ShowErrors(t *testing.T) {
	s, ctrl := newTestServer()

	ctrl.showErr = menubar.ErrNotReady
	dErr := s.ShowWindow()
	require.NotNil(t, dErr)
	assert.Equal(t, errNotReady, dErr.Name)

	ctrl.showErr = errors.New("boom")
	dErr = s.ShowWindow()
	require.NotNil(t, dErr)
	assert.Equal(t, "org.freedesktop.DBus.Error.Failed", dErr.Name)
}

func TestServer_Options(t *testing.T) {
	s, ctrl := newTestServer()

	v, dErr := s.GetOption(config.OptWidth)
	require.Nil(t, dErr)
	assert.Equal(t, "400", v)

	v, dErr = s.GetOption(config.OptX)
	require.Nil(t, dErr)
	assert.Equal(t, "none", v)

	require.Nil(t, s.SetOption(config.OptTooltip, "hello"))
	assert.Equal(t, "hello", ctrl.opts.Tooltip)

	_, dErr = s.GetOption("nope")
	require.NotNil(t, dErr)
	assert.Equal(t, errUnknownOption, dErr.Name)

	dErr = s.SetOption(config.OptWidth, "wide")
	require.NotNil(t, dErr)
	assert.Equal(t, errInvalidValue, dErr.Name)

	raw, dErr := s.Options()
	require.Nil(t, dErr)
	var decoded config.Options
	require.NoError(t, toml.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "hello", decoded.Tooltip)
	assert.Equal(t, 400, decoded.Width)
}

func TestServer_Status(t *testing.T) {
	s, ctrl := newTestServer()
	ctrl.status = menubar.Status{
		Ready:    true,
		State:    menubar.StateVisible.String(),
		WindowID: "01H",
		Anchor:   geometry.AnchorTrayCenter,
		Position: &geometry.Point{X: 10, Y: 20},
	}

	raw, dErr := s.Status()
	require.Nil(t, dErr)

	var st menubar.Status
	require.NoError(t, json.Unmarshal([]byte(raw), &st))
	assert.Equal(t, ctrl.status, st)
}

func TestServer_EmitWithoutConnection(t *testing.T) {
	s, _ := newTestServer()
	assert.Error(t, s.EmitEvent(menubar.Event{Type: menubar.EventShow}))
}

func TestFromDBusError(t *testing.T) {
	err := fromDBusError(dbus.Error{Name: errUnknownOption, Body: []any{"unknown option \"x\""}})
	assert.ErrorIs(t, err, config.ErrUnknownOption)
	assert.Equal(t, "unknown option \"x\"", err.Error())

	err = fromDBusError(fmt.Errorf("wrapped: %w", dbus.NewError(errNotReady, []any{"not ready"})))
	assert.ErrorIs(t, err, menubar.ErrNotReady)

	plain := errors.New("plain")
	assert.Same(t, plain, fromDBusError(plain))

	other := dbus.Error{Name: "org.example.Other", Body: []any{"x"}}
	assert.Equal(t, other, fromDBusError(other))
}

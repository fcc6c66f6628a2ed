package sni

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/jmylchreest/menubar/internal/geometry"
	"github.com/jmylchreest/menubar/internal/menubar"
)

const (
	ItemInterface    = "org.kde.StatusNotifierItem"
	ItemPath         = "/StatusNotifierItem"
	WatcherName      = "org.kde.StatusNotifierWatcher"
	WatcherPath      = "/StatusNotifierWatcher"
	WatcherInterface = "org.kde.StatusNotifierWatcher"

	// noMenuPath tells hosts there is no dbusmenu; right clicks arrive as ContextMenu.
	noMenuPath = "/NO_DBUSMENU"
)

const introspectXML = `
<node>
	<interface name="org.kde.StatusNotifierItem">
		<method name="Activate">
			<arg name="x" type="i" direction="in"/>
			<arg name="y" type="i" direction="in"/>
		</method>
		<method name="SecondaryActivate">
			<arg name="x" type="i" direction="in"/>
			<arg name="y" type="i" direction="in"/>
		</method>
		<method name="ContextMenu">
			<arg name="x" type="i" direction="in"/>
			<arg name="y" type="i" direction="in"/>
		</method>
		<method name="Scroll">
			<arg name="delta" type="i" direction="in"/>
			<arg name="orientation" type="s" direction="in"/>
		</method>
		<property name="Category" type="s" access="read"/>
		<property name="Id" type="s" access="read"/>
		<property name="Title" type="s" access="read"/>
		<property name="Status" type="s" access="read"/>
		<property name="IconName" type="s" access="read"/>
		<property name="IconPixmap" type="a(iiay)" access="read"/>
		<property name="ToolTip" type="(sa(iiay)ss)" access="read"/>
		<property name="ItemIsMenu" type="b" access="read"/>
		<property name="Menu" type="o" access="read"/>
		<signal name="NewTitle"/>
		<signal name="NewIcon"/>
		<signal name="NewToolTip"/>
		<signal name="NewStatus">
			<arg name="status" type="s"/>
		</signal>
	</interface>` + introspect.IntrospectDeclarationString + `
</node>`

// ToolTip is the SNI tooltip structure.
type ToolTip struct {
	IconName    string
	IconPixmap  []Pixmap
	Title       string
	Description string
}

// Options configures an Item.
type Options struct {
	// ID is the application identifier shown to tray hosts.
	ID string
	// Title is the human readable name.
	Title string
	// Dispatch runs activations on the UI thread. Nil calls handlers directly.
	Dispatch func(func())
	// Modifiers fills in held modifier keys for an activation.
	Modifiers func(*menubar.Activation)
}

// Item is a StatusNotifierItem tray icon. It implements menubar.Tray and
// menubar.IconSetter.
type Item struct {
	conn    *dbus.Conn
	name    string
	opts    Options
	icons   *IconCache
	logger  *slog.Logger
	props   *prop.Properties
	signals chan *dbus.Signal

	mu       sync.Mutex
	handlers map[menubar.ClickKind][]func(menubar.Activation)
	tooltip  string
	pixmap   Pixmap
	closed   bool
}

// New exports a tray icon showing iconPath (empty for the bundled icon) and
// registers it with the StatusNotifierWatcher. A missing watcher is logged
// and retried when one appears.
func New(ctx context.Context, conn *dbus.Conn, iconPath string, opts Options, logger *slog.Logger) (*Item, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}

	icons, err := NewIconCache(8, logger)
	if err != nil {
		return nil, err
	}

	item := &Item{
		conn:     conn,
		name:     fmt.Sprintf("%s-%d-1", ItemInterface, os.Getpid()),
		opts:     opts,
		icons:    icons,
		logger:   logger,
		signals:  make(chan *dbus.Signal, 16),
		handlers: make(map[menubar.ClickKind][]func(menubar.Activation)),
	}

	item.pixmap, err = icons.Load(iconPath)
	if err != nil {
		logger.Warn("failed to load icon, using bundled icon", "path", iconPath, "error", err)
		if item.pixmap, err = icons.Load(""); err != nil {
			return nil, err
		}
	}

	if err := item.export(); err != nil {
		return nil, err
	}

	item.watchForWatcher()
	if err := item.register(ctx); err != nil {
		logger.Warn("no status notifier watcher, tray icon hidden until one starts", "error", err)
	}

	return item, nil
}

// Name returns the bus name the item owns.
func (i *Item) Name() string {
	return i.name
}

func (i *Item) export() error {
	reply, err := i.conn.RequestName(i.name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name %s: %w", i.name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s already taken", i.name)
	}

	if err := i.conn.Export(itemObject{item: i}, ItemPath, ItemInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", ItemInterface, err)
	}

	if err := i.conn.Export(introspect.Introspectable(introspectXML), ItemPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}

	props, err := prop.Export(i.conn, ItemPath, prop.Map{
		ItemInterface: map[string]*prop.Prop{
			"Category":   {Value: "ApplicationStatus", Emit: prop.EmitFalse},
			"Id":         {Value: i.opts.ID, Emit: prop.EmitFalse},
			"Title":      {Value: i.opts.Title, Emit: prop.EmitTrue},
			"Status":     {Value: "Active", Emit: prop.EmitTrue},
			"IconName":   {Value: "", Emit: prop.EmitTrue},
			"IconPixmap": {Value: []Pixmap{i.pixmap}, Emit: prop.EmitTrue},
			"ToolTip":    {Value: i.toolTip(), Emit: prop.EmitTrue},
			"ItemIsMenu": {Value: false, Emit: prop.EmitFalse},
			"Menu":       {Value: dbus.ObjectPath(noMenuPath), Emit: prop.EmitFalse},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to export properties: %w", err)
	}
	i.props = props
	return nil
}

func (i *Item) register(ctx context.Context) error {
	watcher := i.conn.Object(WatcherName, WatcherPath)
	call := watcher.CallWithContext(ctx, WatcherInterface+".RegisterStatusNotifierItem", 0, i.name)
	if call.Err != nil {
		return fmt.Errorf("failed to register with %s: %w", WatcherName, call.Err)
	}
	i.logger.Info("tray icon registered", "name", i.name)
	return nil
}

// watchForWatcher re-registers whenever a StatusNotifierWatcher takes the
// bus name, e.g. after the panel restarts.
func (i *Item) watchForWatcher() {
	if err := i.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, WatcherName),
	); err != nil {
		i.logger.Warn("failed to watch for tray host", "error", err)
		return
	}
	i.conn.Signal(i.signals)

	go func() {
		for signal := range i.signals {
			if signal.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(signal.Body) < 3 {
				continue
			}
			name, _ := signal.Body[0].(string)
			newOwner, _ := signal.Body[2].(string)
			if name != WatcherName || newOwner == "" {
				continue
			}
			if err := i.register(context.Background()); err != nil {
				i.logger.Warn("failed to re-register tray icon", "error", err)
			}
		}
	}()
}

// Close unexports the item and releases its bus name.
func (i *Item) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true

	_ = i.conn.RemoveMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, WatcherName),
	)
	i.conn.RemoveSignal(i.signals)
	close(i.signals)

	_ = i.conn.Export(nil, ItemPath, ItemInterface)
	_, err := i.conn.ReleaseName(i.name)
	return err
}

// On registers an activation handler.
func (i *Item) On(kind menubar.ClickKind, handler func(menubar.Activation)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handlers[kind] = append(i.handlers[kind], handler)
}

// SetTooltip updates the tooltip title.
func (i *Item) SetTooltip(text string) {
	i.mu.Lock()
	i.tooltip = text
	tip := i.toolTip()
	i.mu.Unlock()

	if i.props == nil {
		return
	}
	i.props.SetMust(ItemInterface, "ToolTip", tip)
	if err := i.conn.Emit(ItemPath, ItemInterface+".NewToolTip"); err != nil {
		i.logger.Debug("failed to emit NewToolTip", "error", err)
	}
}

// SetIcon swaps the icon image. An empty path selects the bundled icon.
func (i *Item) SetIcon(path string) error {
	p, err := i.icons.Load(path)
	if err != nil {
		return err
	}

	i.mu.Lock()
	i.pixmap = p
	i.mu.Unlock()

	if i.props == nil {
		return nil
	}
	i.props.SetMust(ItemInterface, "IconPixmap", []Pixmap{p})
	if err := i.conn.Emit(ItemPath, ItemInterface+".NewIcon"); err != nil {
		i.logger.Debug("failed to emit NewIcon", "error", err)
	}
	return nil
}

func (i *Item) toolTip() ToolTip {
	return ToolTip{Title: i.tooltip}
}

// activate is called on the bus goroutine.
func (i *Item) activate(kind menubar.ClickKind, x, y int32) {
	i.mu.Lock()
	handlers := append([]func(menubar.Activation){}, i.handlers[kind]...)
	i.mu.Unlock()

	if len(handlers) == 0 {
		i.logger.Debug("unhandled tray activation", "kind", kind)
		return
	}

	i.opts.Dispatch(func() {
		a := activation(x, y)
		if i.opts.Modifiers != nil {
			i.opts.Modifiers(&a)
		}
		for _, h := range handlers {
			h(a)
		}
	})
}

// activation builds an Activation from the click hint. Hosts that do not
// know where the icon is send 0,0; that is reported as no bounds.
func activation(x, y int32) menubar.Activation {
	if x == 0 && y == 0 {
		return menubar.Activation{}
	}
	return menubar.Activation{Bounds: &geometry.Rect{X: int(x), Y: int(y)}}
}

// itemObject holds the methods exported on the bus.
type itemObject struct {
	item *Item
}

func (o itemObject) Activate(x, y int32) *dbus.Error {
	o.item.activate(menubar.Click, x, y)
	return nil
}

func (o itemObject) SecondaryActivate(x, y int32) *dbus.Error {
	o.item.activate(menubar.MiddleClick, x, y)
	return nil
}

func (o itemObject) ContextMenu(x, y int32) *dbus.Error {
	o.item.activate(menubar.RightClick, x, y)
	return nil
}

func (o itemObject) Scroll(delta int32, orientation string) *dbus.Error {
	o.item.logger.Debug("tray scroll ignored", "delta", delta, "orientation", orientation)
	return nil
}

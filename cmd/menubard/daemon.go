package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	godbus "github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/menubar/internal/config"
	"github.com/jmylchreest/menubar/internal/daemon"
	"github.com/jmylchreest/menubar/internal/dbus"
	"github.com/jmylchreest/menubar/internal/display"
	"github.com/jmylchreest/menubar/internal/menubar"
	"github.com/jmylchreest/menubar/internal/sni"
	"github.com/jmylchreest/menubar/internal/theme"
)

// overrides holds what the command line sets on top of the config file.
type overrides struct {
	dir      string
	theme    string
	detached bool
	preload  bool
}

func (o overrides) apply(opts *config.Options) *config.Options {
	opts = opts.Clone()
	if o.dir != "" {
		opts.Dir = o.dir
	}
	if o.theme != "" {
		opts.Theme = o.theme
	}
	if o.detached {
		opts.Detached = true
	}
	if o.preload {
		opts.PreloadWindow = true
	}
	return opts
}

func idle(fn func()) {
	glib.IdleAdd(fn)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger := setupLogger()
	logger.Info("starting menubard", "version", version)

	configPath := globalOpts.configPath
	if configPath == "" {
		p, err := config.Path()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		configPath = p
	}

	fileOpts, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	over := overrides{
		theme:    globalOpts.theme,
		detached: globalOpts.detached,
		preload:  globalOpts.preload,
	}
	if len(args) == 1 {
		over.dir = args[0]
	}

	app := adw.NewApplication(appID, 0)

	var (
		mb            *menubar.Menubar
		host          *display.Host
		tray          *sni.Item
		server        *dbus.Server
		themes        *theme.Loader
		configWatcher *daemon.ConfigWatcher
		conn          *godbus.Conn
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
		idle(func() { app.Quit() })
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Debug("already running")
			return
		}
		running.Store(true)

		conn, err = godbus.SessionBus()
		if err != nil {
			logger.Error("failed to connect to session bus", "error", err)
			app.Quit()
			return
		}

		notifier := daemon.NewInternalNotifier(appName, daemon.BusSender(conn), logger)

		host = display.NewHost(app, logger)
		host.Hold()

		env := config.Environment{AppPath: host.AppPath(), GOOS: runtime.GOOS}
		opts := config.Normalize(over.apply(fileOpts), env)

		themes = theme.NewLoader(logger)
		themes.SetErrorCallback(notifier.NotifyThemeError)
		themes.Use(opts.Theme)
		themes.Apply(nil)
		themes.Watch(ctx)

		newTray := func(iconPath string) (menubar.Tray, error) {
			item, err := sni.New(ctx, conn, iconPath, sni.Options{
				ID:        appName,
				Title:     trayTitle(opts),
				Dispatch:  idle,
				Modifiers: display.ReadModifiers,
			}, logger)
			if err != nil {
				return nil, err
			}
			tray = item
			return item, nil
		}

		mb = menubar.New(opts, host, logger,
			menubar.WithTrayFactory(newTray),
			menubar.WithWindowFactory(host.WindowFactory()),
			menubar.WithScreen(host.Screen()),
			menubar.WithThemeHandler(themes.Use),
		)
		logEvents(mb, logger)

		if err := mb.Ready(); err != nil {
			logger.Error("failed to start menubar", "error", err)
			app.Quit()
			return
		}

		server = dbus.NewServer(mb, idle, logger)
		if err := server.Start(); err != nil {
			logger.Warn("control service unavailable", "error", err)
		} else {
			events, _ := mb.Subscribe(32)
			go server.ForwardEvents(ctx, events)
		}

		configWatcher = daemon.NewConfigWatcher(configPath, logger)
		configWatcher.SetReloadCallback(func(prev, next *config.Options) {
			if prev == nil {
				prev = &config.Options{}
			}
			idle(func() {
				// Only options edited in the file are applied; runtime
				// changes to the others survive the reload.
				changed, err := mb.Reconfigure(
					config.Normalize(over.apply(prev), env),
					config.Normalize(over.apply(next), env),
				)
				if err != nil {
					logger.Warn("some options could not be applied", "error", err)
					notifier.NotifyConfigError(err)
					return
				}
				logger.Info("applied config changes", "options", changed)
				notifier.NotifyConfigReloaded(changed)
			})
		})
		configWatcher.SetErrorCallback(notifier.NotifyConfigError)
		if err := configWatcher.Start(ctx, fileOpts); err != nil {
			logger.Warn("config hot-reload disabled", "path", configPath, "error", err)
		}

		logger.Info("menubard ready", "config", configPath, "dbus_name", dbus.BusName)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if themes != nil {
			themes.Stop()
		}
		if server != nil {
			_ = server.Stop()
		}
		if mb != nil {
			if w := mb.Window(); w != nil {
				if c, ok := w.(interface{ Close() }); ok {
					c.Close()
				}
			}
			mb.Close()
		}
		if tray != nil {
			_ = tray.Close()
		}
		if host != nil {
			host.Release()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])
	cancel()

	if status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	logger.Info("menubard stopped")
	return nil
}

func trayTitle(opts *config.Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	return appName
}

// logEvents mirrors lifecycle events to the debug log.
func logEvents(mb *menubar.Menubar, logger *slog.Logger) {
	for _, t := range menubar.EventTypes() {
		mb.On(t, func(ev menubar.Event) {
			attrs := []any{"event", ev.Type}
			if ev.WindowID != "" {
				attrs = append(attrs, "window_id", ev.WindowID)
			}
			if ev.Position != nil {
				attrs = append(attrs, "x", ev.Position.X, "y", ev.Position.Y)
			}
			logger.Debug("menubar event", attrs...)
		})
	}
}

// Package menubar drives a single popup window from a status-area icon.
//
// A Menubar owns the configuration record, the tray icon and at most one
// popup window. Icon activations toggle the window, which is created lazily,
// positioned relative to the icon (or a screen corner when the icon bounds are
// unknown) and hidden again when it loses focus unless it is detached.
//
// All methods must be called from the host's UI thread. Adapters that receive
// events on other goroutines (D-Bus, file watchers) marshal them first.
package menubar

// Package display adapts GTK4 and libadwaita to the menubar widgets.
// Popup windows are placed with Wayland layer-shell when the compositor
// supports it; monitor geometry comes from the default GDK display.
package display

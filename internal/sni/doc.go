// Package sni exports the menubar icon as a StatusNotifierItem over the
// session bus, the tray protocol used by KDE, waybar and most Wayland panels.
//
// Activate maps to a click, SecondaryActivate to a middle click and
// ContextMenu to a right click. The protocol has no double-click signal, so
// an Item never delivers menubar.DoubleClick.
package sni

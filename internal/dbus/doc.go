// Package dbus exposes a running menubar on the session bus.
//
// The daemon exports a control object implementing the
// io.github.jmylchreest.Menubar interface: show, hide, toggle, detach and
// attach the popup, read and write options, and query status. Every
// lifecycle event is re-broadcast as an Event signal so that clients can
// follow the popup without polling. Client wraps the same interface for the
// command line tool.
package dbus

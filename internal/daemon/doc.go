// Package daemon holds the long-running helpers of menubard that sit
// outside the GTK adapters: configuration hot-reload and desktop
// notifications about the daemon's own problems.
package daemon

// Package theme styles the popup window with CSS.
//
// Themes are looked up by name, first as ~/.config/menubar/themes/<name>.css
// and then among the themes bundled into the binary. @import statements are
// inlined before the CSS reaches GTK, and user themes are polled for changes
// so edits show up without restarting the daemon.
package theme

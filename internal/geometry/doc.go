// Package geometry converts a named anchor and an optional trigger rectangle
// into absolute screen coordinates for the popup window.
package geometry

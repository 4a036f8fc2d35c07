// Package tui renders an interactive progress view with bubbletea.
//
// TUI implements mutuals.Reporter, so a Runner drives it the same way it
// drives the plain console printer. The program exits on its own once the
// run reports its summary.
package tui

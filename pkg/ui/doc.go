// Package ui prints run progress to the terminal.
//
// Console implements mutuals.Reporter with one line per event. Styling goes
// through lipgloss and is switched off for non-terminals or when NO_COLOR is
// set. The interactive progress view lives in the tui subpackage.
package ui

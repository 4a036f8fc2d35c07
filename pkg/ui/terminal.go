package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dim     = lipgloss.NewStyle().Faint(true)
	bold    = lipgloss.NewStyle().Bold(true)
)

var (
	stateMu      sync.RWMutex
	quietMode    bool
	colorEnabled = true
)

// SetQuietMode suppresses per-file and per-download lines
func SetQuietMode(quiet bool) {
	stateMu.Lock()
	defer stateMu.Unlock()
	quietMode = quiet
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return quietMode
}

// SetColorEnabled turns styling on or off for every helper in this package
func SetColorEnabled(enabled bool) {
	stateMu.Lock()
	defer stateMu.Unlock()
	colorEnabled = enabled
}

func isColorEnabled() bool {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return colorEnabled
}

// SupportsColor reports whether w is a terminal that should get colors.
// noColor forces false.
func SupportsColor(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func render(style lipgloss.Style, text string) string {
	if !isColorEnabled() {
		return text
	}
	return style.Render(text)
}

// Color helpers
func Cyan(text string) string    { return render(cyan, text) }
func Yellow(text string) string  { return render(yellow, text) }
func Red(text string) string     { return render(red, text) }
func Green(text string) string   { return render(green, text) }
func Dim(text string) string     { return render(dim, text) }
func Bold(text string) string    { return render(bold, text) }

// PrintError prints an error message in red to w
func PrintError(w io.Writer, msg string, args ...interface{}) {
	fmt.Fprintln(w, Red(fmt.Sprintf(msg, args...)))
}

// PrintWarning prints a warning message in yellow to w
func PrintWarning(w io.Writer, msg string, args ...interface{}) {
	fmt.Fprintln(w, Yellow(fmt.Sprintf(msg, args...)))
}

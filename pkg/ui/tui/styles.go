package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accentCyan    = lipgloss.Color("#00D7FF")
	accentMagenta = lipgloss.Color("#FF5FD7")
	accentGreen   = lipgloss.Color("#5FFF87")
	accentYellow  = lipgloss.Color("#FFD75F")
	accentRed     = lipgloss.Color("#FF5F5F")
	dimGray       = lipgloss.Color("#808080")

	titleStyle = lipgloss.NewStyle().
			Background(accentMagenta).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentMagenta).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(accentYellow)

	successStyle = lipgloss.NewStyle().Foreground(accentGreen)
	warningStyle = lipgloss.NewStyle().Foreground(accentYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(accentRed)

	logTimestampStyle = lipgloss.NewStyle().Foreground(dimGray)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			PaddingLeft(1)
)

// levelStyle picks the color of a log line's level tag
func levelStyle(level string) lipgloss.Style {
	switch level {
	case LevelSuccess:
		return successStyle.Bold(true)
	case LevelWarn:
		return warningStyle.Bold(true)
	case LevelError:
		return errorStyle.Bold(true)
	default:
		return statsLabelStyle
	}
}

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"fetchmoots/pkg/mutuals"
)

// Log levels shown in the activity panel
const (
	LevelInfo    = "INFO"
	LevelSuccess = "OK"
	LevelWarn    = "WARN"
	LevelError   = "ERROR"
)

// LogMessage is one line of the activity panel
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
}

// Model is the bubbletea model behind the progress view
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	// Parse stage
	filesParsed  int
	filesSkipped int
	mutualsFound int

	// Download stage
	total           int
	done            int
	downloaded      int
	failed          int
	bytesDownloaded int64

	startTime time.Time
	summary   *mutuals.Summary
	finished  bool
	userQuit  bool

	width          int
	logMessages    []LogMessage
	maxLogMessages int
}

// NewModel creates an empty model
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statsLabelStyle

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return &Model{
		spinner:        s,
		progress:       p,
		startTime:      time.Now(),
		maxLogMessages: 8,
	}
}

// Init starts the spinner
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// AddLogMessage appends a line to the activity panel, dropping the oldest
// once the panel is full
func (m *Model) AddLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	})
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Percent returns the share of downloads that have finished
func (m *Model) Percent() float64 {
	if m.total == 0 {
		if m.finished {
			return 1
		}
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// Finished reports whether the run has ended
func (m *Model) Finished() bool {
	return m.finished
}

// UserQuit reports whether the view was closed by a key press before the
// run ended
func (m *Model) UserQuit() bool {
	return m.userQuit
}

// FormatBytes formats bytes to human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats a duration as mm:ss or hh:mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"fetchmoots/pkg/mutuals"
	"fetchmoots/pkg/timeline"
	"fetchmoots/pkg/ui"
)

// FileParsedMsg is sent when a timeline file has been filtered
type FileParsedMsg struct {
	Path   string
	Result timeline.FilterResult
}

// NoEntriesMsg is sent for a file without entries
type NoEntriesMsg struct {
	Path string
}

// FileSkippedMsg is sent for a file that could not be read
type FileSkippedMsg struct {
	Path  string
	Error error
}

// DownloadsStartedMsg is sent once the download queue is known
type DownloadsStartedMsg struct {
	Total int
}

// DownloadFinishedMsg is sent for every attempted download
type DownloadFinishedMsg struct {
	Result mutuals.DownloadResult
}

// FinishedMsg ends the program
type FinishedMsg struct {
	Summary *mutuals.Summary
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.userQuit = !m.finished
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 20; w > 10 && w < 60 {
			m.progress.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FileParsedMsg:
		m.filesParsed++
		m.mutualsFound += len(msg.Result.Mutuals)
		m.AddLogMessage(LevelInfo, fmt.Sprintf("Found %d mutuals in %s", len(msg.Result.Mutuals), msg.Path))
		if n := len(msg.Result.Skipped); n > 0 {
			m.AddLogMessage(LevelWarn, fmt.Sprintf("Skipped %d malformed entries in %s", n, msg.Path))
		}
		return m, nil

	case NoEntriesMsg:
		m.filesParsed++
		m.AddLogMessage(LevelWarn, fmt.Sprintf("No entries found in %s", msg.Path))
		return m, nil

	case FileSkippedMsg:
		m.filesSkipped++
		m.AddLogMessage(LevelError, fmt.Sprintf("Skipping %s: %v", msg.Path, msg.Error))
		return m, nil

	case DownloadsStartedMsg:
		m.total = msg.Total
		return m, nil

	case DownloadFinishedMsg:
		m.done++
		if msg.Result.Success {
			m.downloaded++
			m.bytesDownloaded += int64(msg.Result.Size)
			m.AddLogMessage(LevelSuccess, "Downloaded profile picture for @"+msg.Result.Record.Username)
		} else {
			m.failed++
			m.AddLogMessage(LevelError, ui.FailureLine(msg.Result))
		}
		return m, nil

	case FinishedMsg:
		m.finished = true
		m.summary = msg.Summary
		return m, tea.Quit
	}

	return m, nil
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the progress view
func (m *Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(" FETCHMOOTS "))
	sections = append(sections, m.renderStats())
	sections = append(sections, m.renderProgress())
	sections = append(sections, m.renderLogs())

	if m.finished {
		sections = append(sections, m.renderSummary())
	} else {
		sections = append(sections, helpStyle.Render("q: quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *Model) renderStats() string {
	stat := func(label string, value interface{}) string {
		return statsLabelStyle.Render(label+": ") + statsValueStyle.Render(fmt.Sprint(value))
	}

	rows := []string{
		stat("Files", m.filesParsed) + "  " + stat("Skipped", m.filesSkipped) + "  " + stat("Mutuals", m.mutualsFound),
		stat("Downloaded", m.downloaded) + "  " + stat("Failed", m.failed) + "  " + stat("Size", FormatBytes(m.bytesDownloaded)),
		stat("Elapsed", formatDuration(time.Since(m.startTime))),
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderProgress() string {
	indicator := m.spinner.View()
	if m.finished {
		indicator = successStyle.Render("✓")
	}
	return fmt.Sprintf("%s %s %d/%d", indicator, m.progress.ViewAs(m.Percent()), m.done, m.total)
}

func (m *Model) renderLogs() string {
	if len(m.logMessages) == 0 {
		return logTimestampStyle.Render("Waiting for timeline files...")
	}

	lines := make([]string, 0, len(m.logMessages))
	for _, log := range m.logMessages {
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := levelStyle(log.Level).Render(fmt.Sprintf("[%-5s]", log.Level))

		message := truncate(log.Message, m.width-20)
		lines = append(lines, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSummary() string {
	if m.summary == nil {
		return ""
	}
	text := fmt.Sprintf("Finished downloading %d profile pictures to %s\n%d downloaded, %d failed",
		m.summary.Attempted, m.summary.Folder, m.summary.Downloaded, m.summary.Failed)
	if w := m.summary.FilesWritten; w > 0 && w < m.summary.Downloaded {
		text += fmt.Sprintf(", %d files written", w)
	}
	return text
}

// truncate shortens message to at most limit display cells, ending in "..."
func truncate(message string, limit int) string {
	if limit <= 3 || lipgloss.Width(message) <= limit {
		return message
	}

	runes := []rune(message)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"fetchmoots/pkg/mutuals"
	"fetchmoots/pkg/timeline"
)

// TUI runs the progress view and implements mutuals.Reporter by forwarding
// every event to it
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a TUI. Options are passed to tea.NewProgram.
func NewTUI(opts ...tea.ProgramOption) *TUI {
	model := NewModel()
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Start runs the view until the run finishes, Stop is called, or the user
// quits. It returns true only when the user quit before the run finished.
func (t *TUI) Start() (bool, error) {
	final, err := t.program.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(*Model)
	return ok && m.UserQuit(), nil
}

// Stop ends the view
func (t *TUI) Stop() {
	t.program.Quit()
}

func (t *TUI) FileParsed(path string, result timeline.FilterResult) {
	t.program.Send(FileParsedMsg{Path: path, Result: result})
}

func (t *TUI) NoEntries(path string) {
	t.program.Send(NoEntriesMsg{Path: path})
}

func (t *TUI) FileSkipped(path string, err error) {
	t.program.Send(FileSkippedMsg{Path: path, Error: err})
}

func (t *TUI) DownloadsStarted(total int) {
	t.program.Send(DownloadsStartedMsg{Total: total})
}

func (t *TUI) DownloadFinished(result mutuals.DownloadResult) {
	t.program.Send(DownloadFinishedMsg{Result: result})
}

func (t *TUI) Finished(summary *mutuals.Summary) {
	t.program.Send(FinishedMsg{Summary: summary})
}

var _ mutuals.Reporter = (*TUI)(nil)

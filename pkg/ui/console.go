package ui

import (
	"fmt"
	"io"
	"sync"

	"fetchmoots/pkg/errors"
	"fetchmoots/pkg/mutuals"
	"fetchmoots/pkg/timeline"
)

// Console prints run progress as plain lines
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	total  int
	done   int
}

// NewConsole writes progress to out and warnings to errOut
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

func (c *Console) FileParsed(path string, result timeline.FilterResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(result.Skipped) > 0 {
		PrintWarning(c.errOut, "Skipped %d malformed entries in %s", len(result.Skipped), path)
	}
	if IsQuietMode() {
		return
	}
	fmt.Fprintf(c.out, "Found %s mutuals in %s\n", Bold(fmt.Sprint(len(result.Mutuals))), path)
}

func (c *Console) NoEntries(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if IsQuietMode() {
		return
	}
	fmt.Fprintf(c.out, "No entries found in %s\n", path)
}

func (c *Console) FileSkipped(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	PrintWarning(c.errOut, "Skipping %s: %v", path, err)
}

func (c *Console) DownloadsStarted(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = total
	c.done = 0
}

func (c *Console) DownloadFinished(result mutuals.DownloadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.done++
	progress := Dim(fmt.Sprintf("[%d/%d]", c.done, c.total))

	if result.Success {
		if IsQuietMode() {
			return
		}
		fmt.Fprintf(c.out, "%s Downloaded profile picture for @%s\n", progress, result.Record.Username)
		return
	}

	fmt.Fprintf(c.out, "%s %s\n", progress, Red(FailureLine(result)))
}

func (c *Console) Finished(summary *mutuals.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "Finished downloading %d profile pictures to %s\n", summary.Attempted, summary.Folder)

	line := fmt.Sprintf("%s downloaded, %s failed", Green(fmt.Sprint(summary.Downloaded)), fmt.Sprint(summary.Failed))
	if summary.Failed > 0 {
		line = fmt.Sprintf("%s downloaded, %s failed", Green(fmt.Sprint(summary.Downloaded)), Red(fmt.Sprint(summary.Failed)))
	}
	if summary.FilesWritten > 0 && summary.FilesWritten < summary.Downloaded {
		// repeated usernames overwrote each other
		line += fmt.Sprintf(", %s", Cyan(fmt.Sprintf("%d files written", summary.FilesWritten)))
	}
	if summary.FilesSkipped > 0 {
		line += fmt.Sprintf(", %s", Yellow(fmt.Sprintf("%d files skipped", summary.FilesSkipped)))
	}
	fmt.Fprintln(c.out, line)
}

// FailureLine describes a failed download the way the console prints it
func FailureLine(result mutuals.DownloadResult) string {
	if code := errors.StatusCode(result.Err); code != 0 {
		return fmt.Sprintf("Failed to download profile picture for @%s: status code %d", result.Record.Username, code)
	}
	return fmt.Sprintf("Failed to download profile picture for @%s: %v", result.Record.Username, result.Err)
}

package mutuals

import "fetchmoots/pkg/timeline"

// Reporter receives progress events from a Runner. DownloadFinished may be
// called from several goroutines, one call at a time.
type Reporter interface {
	// FileParsed is called once per readable file that had entries
	FileParsed(path string, result timeline.FilterResult)
	// NoEntries is called for a file whose instructions held no entries
	NoEntries(path string)
	// FileSkipped is called for a file that could not be read or parsed
	FileSkipped(path string, err error)
	// DownloadsStarted is called once with the number of records queued
	DownloadsStarted(total int)
	DownloadFinished(result DownloadResult)
	Finished(summary *Summary)
}

// NopReporter discards every event
type NopReporter struct{}

func (NopReporter) FileParsed(string, timeline.FilterResult) {}
func (NopReporter) NoEntries(string)                         {}
func (NopReporter) FileSkipped(string, error)                {}
func (NopReporter) DownloadsStarted(int)                     {}
func (NopReporter) DownloadFinished(DownloadResult)          {}
func (NopReporter) Finished(*Summary)                        {}

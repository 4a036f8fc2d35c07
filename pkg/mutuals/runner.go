package mutuals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fetchmoots/internal/downloader"
	"fetchmoots/pkg/avatar"
	"fetchmoots/pkg/config"
	"fetchmoots/pkg/errors"
	"fetchmoots/pkg/logger"
	"fetchmoots/pkg/storage"
	"fetchmoots/pkg/timeline"
)

// DownloadResult is the outcome of one attempted download
type DownloadResult struct {
	Record   timeline.UserRecord
	Success  bool
	Path     string
	Size     int
	Duration time.Duration
	Err      error
}

// Summary totals a run
type Summary struct {
	Files        int
	FilesSkipped int
	Mutuals      int
	Attempted    int
	Downloaded   int
	Failed       int
	// FilesWritten counts distinct files; a repeated username overwrites
	FilesWritten int
	Folder       string
	Duration     time.Duration
}

// savedCounter is storage that counts the distinct files it has written
type savedCounter interface {
	SavedCount() int
}

// Runner orchestrates parsing and downloading
type Runner struct {
	client   downloader.AvatarFetcher
	storage  downloader.AvatarStorage
	reporter Reporter
	config   *config.Config
	logger   logger.Logger
}

// New creates a Runner from its parts. A nil reporter discards events and
// a nil logger falls back to the global one.
func New(cfg *config.Config, client downloader.AvatarFetcher, store downloader.AvatarStorage, reporter Reporter, log logger.Logger) *Runner {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Runner{
		client:   client,
		storage:  store,
		reporter: reporter,
		config:   cfg,
		logger:   log,
	}
}

// NewFromConfig builds the HTTP client and storage manager from cfg
func NewFromConfig(cfg *config.Config, reporter Reporter) *Runner {
	log := logger.GetLogger()

	client := avatar.NewClient(cfg.Download.Timeout, log)
	if cfg.Download.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Download.UserAgent)
	}

	return New(cfg, client, storage.NewManager(cfg.Output.Folder), reporter, log)
}

// CollectFile reads one timeline file and returns its mutuals. Malformed
// entries are logged and skipped unless strict mode is on.
func (r *Runner) CollectFile(path string) ([]timeline.UserRecord, error) {
	doc, err := timeline.Load(path)
	if err != nil {
		return nil, err
	}

	instructions, err := timeline.Instructions(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	entries := timeline.FindEntries(instructions)
	if len(entries) == 0 {
		logger.LogFileProcessed(r.logger, path, 0, 0, nil)
		r.reporter.NoEntries(path)
		return nil, nil
	}

	result, err := timeline.FilterMutuals(entries, timeline.FilterOptions{
		Source: path,
		Strict: r.config.Input.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, skipped := range result.Skipped {
		r.logger.WithError(skipped.Err).WarnWithFields("Skipping malformed entry", map[string]interface{}{
			"file":     path,
			"index":    skipped.Index,
			"entry_id": skipped.EntryID,
		})
	}

	logger.LogFileProcessed(r.logger, path, result.Entries, len(result.Mutuals), nil)
	r.reporter.FileParsed(path, result)

	return result.Mutuals, nil
}

// Collect reads every file in order and concatenates their mutuals. An
// unreadable or malformed file is skipped, or aborts the run in strict mode.
func (r *Runner) Collect(paths []string) ([]timeline.UserRecord, *Summary, error) {
	summary := &Summary{Folder: r.config.Output.Folder}
	var records []timeline.UserRecord

	for _, path := range paths {
		fileRecords, err := r.CollectFile(path)
		if err != nil {
			if errors.IsFatal(err, r.config.Input.Strict) {
				return records, summary, err
			}

			logger.LogFileProcessed(r.logger, path, 0, 0, err)
			r.reporter.FileSkipped(path, err)
			summary.FilesSkipped++
			continue
		}

		summary.Files++
		records = append(records, fileRecords...)
	}

	summary.Mutuals = len(records)
	return records, summary, nil
}

// Download fetches every record's avatar on the worker pool. Results come
// back in record order; a record whose job could not be queued because ctx
// ended has no result.
func (r *Runner) Download(ctx context.Context, records []timeline.UserRecord) []DownloadResult {
	r.reporter.DownloadsStarted(len(records))
	if len(records) == 0 {
		return nil
	}

	pool := downloader.NewWorkerPool(ctx, r.config.Download.ConcurrentDownloads, r.client, r.storage, r.logger)
	logger.LogComponentStart(r.logger, "worker_pool", map[string]interface{}{
		"workers": pool.GetActiveWorkers(),
		"jobs":    len(records),
	})
	pool.Start()

	byIndex := make([]*DownloadResult, len(records))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for res := range pool.Results() {
			result := DownloadResult{
				Record:   records[res.Job.Index],
				Success:  res.Success,
				Path:     res.Path,
				Size:     res.Size,
				Duration: res.Duration,
				Err:      res.Error,
			}
			byIndex[res.Job.Index] = &result

			logger.LogDownload(r.logger, result.Record.Username, res.Job.URL, res.Size, res.Error)
			r.reporter.DownloadFinished(result)
		}
	}()

	for i, record := range records {
		job := downloader.Job{
			Index:    i,
			Username: record.Username,
			URL:      record.AvatarURL,
			Ext:      timeline.FileExtension(record.AvatarURL),
		}
		if err := pool.Submit(job); err != nil {
			r.logger.WithError(err).WithField("username", record.Username).Warn("Download not queued")
			break
		}
	}

	pool.Stop()
	wg.Wait()

	reason := "completed"
	if ctx.Err() != nil {
		reason = "cancelled"
	}
	logger.LogComponentStop(r.logger, "worker_pool", reason)

	results := make([]DownloadResult, 0, len(records))
	for _, res := range byIndex {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}

// Run collects mutuals from paths and downloads their avatars. The summary
// is returned even on error.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()

	records, summary, err := r.Collect(paths)
	if err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}

	results := r.Download(ctx, records)
	summary.Attempted = len(results)
	for _, res := range results {
		if res.Success {
			summary.Downloaded++
		} else {
			summary.Failed++
		}
	}
	summary.FilesWritten = summary.Downloaded
	if counter, ok := r.storage.(savedCounter); ok {
		summary.FilesWritten = counter.SavedCount()
	}
	summary.Duration = time.Since(start)

	r.logger.InfoWithFields("Run finished", map[string]interface{}{
		"files":         summary.Files,
		"files_skipped": summary.FilesSkipped,
		"mutuals":       summary.Mutuals,
		"downloaded":    summary.Downloaded,
		"failed":        summary.Failed,
		"files_written": summary.FilesWritten,
		"duration":      summary.Duration,
	})
	r.reporter.Finished(summary)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run interrupted: %w", err)
	}
	return summary, nil
}

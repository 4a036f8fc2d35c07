package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"fetchmoots/pkg/logger"
)

// Job is a single avatar download
type Job struct {
	// Index is the job's position in submission order
	Index    int
	Username string
	URL      string
	Ext      string
}

// Result is the outcome of a Job
type Result struct {
	Job      Job
	Success  bool
	Path     string
	Size     int
	Duration time.Duration
	Error    error
}

// AvatarFetcher downloads image bytes
type AvatarFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// AvatarStorage persists image bytes under a username
type AvatarStorage interface {
	Save(r io.Reader, username, ext string) (string, error)
}

// WorkerPool runs downloads on a fixed number of workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     AvatarFetcher
	storage     AvatarStorage
	logger      logger.Logger
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx stops new
// fetches; jobs already queued still produce a failed Result.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	fetcher AvatarFetcher,
	storage AvatarStorage,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		storage:     storage,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for queued jobs to finish and closes Results. Submit must not
// be called after Stop.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit queues a job. It blocks while the queue is full and fails once the
// pool's context is done.
func (wp *WorkerPool) Submit(job Job) error {
	if err := wp.ctx.Err(); err != nil {
		return fmt.Errorf("worker pool is shutting down: %w", err)
	}

	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"username": job.Username,
			"index":    job.Index,
		})
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel results are delivered on. It must be drained
// for the pool to make progress.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job, id)
	}

	wp.logger.DebugWithFields("Worker stopping - job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

// processJob fetches and stores one avatar
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	if err := wp.ctx.Err(); err != nil {
		result.Error = fmt.Errorf("download cancelled: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	wp.logger.DebugWithFields("Worker processing job", map[string]interface{}{
		"worker_id": workerID,
		"username":  job.Username,
		"url":       job.URL,
	})

	data, err := wp.fetcher.Fetch(wp.ctx, job.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.WarnWithFields("Worker failed to download avatar", map[string]interface{}{
			"worker_id": workerID,
			"username":  job.Username,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	result.Size = len(data)

	path, err := wp.storage.Save(bytes.NewReader(data), job.Username, job.Ext)
	if err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("Worker failed to save avatar", map[string]interface{}{
			"worker_id": workerID,
			"username":  job.Username,
			"error":     err.Error(),
			"size":      result.Size,
		})
		return result
	}

	result.Success = true
	result.Path = path
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("Worker completed job successfully", map[string]interface{}{
		"worker_id": workerID,
		"username":  job.Username,
		"path":      path,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}

// GetActiveWorkers returns the number of workers, after clamping
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}

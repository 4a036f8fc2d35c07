package mutuals

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetchmoots/pkg/avatar"
	"fetchmoots/pkg/config"
	"fetchmoots/pkg/errors"
	"fetchmoots/pkg/logger"
	"fetchmoots/pkg/storage"
	"fetchmoots/pkg/timeline"
	"fetchmoots/pkg/timeline/timelinetest"
)

// recordingReporter captures every event for assertions
type recordingReporter struct {
	mu        sync.Mutex
	parsed    map[string]int
	empty     []string
	skipped   []string
	started   int
	finished  []DownloadResult
	summaries []*Summary
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{parsed: make(map[string]int)}
}

func (r *recordingReporter) FileParsed(path string, result timeline.FilterResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsed[path] = len(result.Mutuals)
}

func (r *recordingReporter) NoEntries(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.empty = append(r.empty, path)
}

func (r *recordingReporter) FileSkipped(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, path)
}

func (r *recordingReporter) DownloadsStarted(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = total
}

func (r *recordingReporter) DownloadFinished(result DownloadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, result)
}

func (r *recordingReporter) Finished(summary *Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
}

// avatarServer serves /<name>.<ext> for every name in images; anything else is 404
type avatarServer struct {
	*httptest.Server
	hits int32
}

func newAvatarServer(t *testing.T, images map[string]string) *avatarServer {
	t.Helper()
	s := &avatarServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&s.hits, 1)
		body, ok := images[req.URL.Path]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

type fixture struct {
	dir      string
	folder   string
	cfg      *config.Config
	reporter *recordingReporter
	log      *logger.TestLogger
	runner   *Runner
}

func newFixture(t *testing.T, configure func(*config.Config)) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Output.Folder = filepath.Join(dir, "mutuals")
	cfg.Download.Timeout = 5 * time.Second
	if configure != nil {
		configure(cfg)
	}

	f := &fixture{
		dir:      dir,
		folder:   cfg.Output.Folder,
		cfg:      cfg,
		reporter: newRecordingReporter(),
		log:      logger.NewTestLogger(),
	}
	f.runner = New(cfg, avatar.NewClient(cfg.Download.Timeout, f.log), storage.NewManager(cfg.Output.Folder), f.reporter, f.log)
	return f
}

func (f *fixture) write(t *testing.T, name string, data []byte) string {
	return timelinetest.WriteFile(t, f.dir, name, data)
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.folder)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunOneOfTwoMutual(t *testing.T) {
	server := newAvatarServer(t, map[string]string{
		"/img/abc.jpg": "alice-full",
	})
	f := newFixture(t, nil)

	path := f.write(t, "followers.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("alice", server.URL+"/img/abc_200x200.jpg"),
		timelinetest.UserEntry(timelinetest.User{ScreenName: "bob", AvatarURL: server.URL + "/img/bob.jpg", FollowedBy: true}),
	)))

	summary, err := f.runner.Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice.jpg"}, f.files(t))
	data, err := os.ReadFile(filepath.Join(f.folder, "alice.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "alice-full", string(data))

	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Mutuals)
	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.FilesWritten)
	assert.Equal(t, f.folder, summary.Folder)

	// every record of the run goes to the runner's logger
	assert.True(t, f.log.HasMessage("Timeline file processed"))
	assert.True(t, f.log.HasMessage("Component started"))
	assert.True(t, f.log.HasMessage("Avatar downloaded"))
	assert.True(t, f.log.HasMessage("Component stopped"))
	assert.True(t, f.log.HasMessage("Run finished"))

	assert.Equal(t, 1, f.reporter.parsed[path])
	assert.Equal(t, 1, f.reporter.started)
	require.Len(t, f.reporter.summaries, 1)
	assert.Same(t, summary, f.reporter.summaries[0])
}

func TestRunDuplicateUsernameAcrossFiles(t *testing.T) {
	server := newAvatarServer(t, map[string]string{
		"/a/ada.jpg": "ada-from-followers",
	})
	f := newFixture(t, func(c *config.Config) { c.Download.ConcurrentDownloads = 1 })

	followers := f.write(t, "followers.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("ada", server.URL+"/a/ada_normal.jpg"),
	)))
	following := f.write(t, "following.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("ada", server.URL+"/a/ada_bigger.jpg"),
	)))

	summary, err := f.runner.Run(context.Background(), []string{followers, following})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 2, summary.Mutuals)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 1, summary.FilesWritten)
	assert.Equal(t, int32(2), atomic.LoadInt32(&server.hits))
	assert.Equal(t, []string{"ada.jpg"}, f.files(t))
}

func TestRunNotFoundContinues(t *testing.T) {
	server := newAvatarServer(t, map[string]string{
		"/p/ok.png": "ok",
	})
	f := newFixture(t, nil)

	path := f.write(t, "followers.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("gone", server.URL+"/p/gone_normal.jpg"),
		timelinetest.Mutual("present", server.URL+"/p/ok_normal.png"),
	)))

	summary, err := f.runner.Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{"present.png"}, f.files(t))
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 1, summary.Failed)

	var failed []DownloadResult
	for _, res := range f.reporter.finished {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "gone", failed[0].Record.Username)
	assert.Equal(t, http.StatusNotFound, errors.StatusCode(failed[0].Err))
	assert.True(t, f.log.HasMessage("Avatar download failed"))
}

func TestRunNetworkFailureIsPerDownload(t *testing.T) {
	server := newAvatarServer(t, map[string]string{"/x.jpg": "x"})
	deadURL := server.URL + "/x.jpg"
	server.Close()

	f := newFixture(t, nil)
	path := f.write(t, "followers.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("offline", deadURL),
	)))

	summary, err := f.runner.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, f.reporter.finished, 1)
	assert.True(t, errors.IsType(f.reporter.finished[0].Err, errors.ErrorTypeNetwork))
	assert.Empty(t, f.files(t))
}

func TestRunEmptyInstructions(t *testing.T) {
	f := newFixture(t, nil)
	path := f.write(t, "empty.json", timelinetest.Document())

	summary, err := f.runner.Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{path}, f.reporter.empty)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 0, summary.Mutuals)
	assert.Equal(t, 0, summary.Attempted)
	assert.Equal(t, 0, f.reporter.started)

	// nothing downloaded, so the folder is never created
	_, statErr := os.Stat(f.folder)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMalformedFile(t *testing.T) {
	server := newAvatarServer(t, map[string]string{"/g/good.jpg": "good"})

	t.Run("skipped by default", func(t *testing.T) {
		f := newFixture(t, nil)
		bad := f.write(t, "bad.json", []byte(`{"data":{"user":{}}}`))
		good := f.write(t, "good.json", timelinetest.Document(timelinetest.AddEntries(
			timelinetest.Mutual("good", server.URL+"/g/good_normal.jpg"),
		)))
		missing := filepath.Join(f.dir, "missing.json")

		summary, err := f.runner.Run(context.Background(), []string{bad, missing, good})
		require.NoError(t, err)

		assert.Equal(t, []string{bad, missing}, f.reporter.skipped)
		assert.Equal(t, 1, summary.Files)
		assert.Equal(t, 2, summary.FilesSkipped)
		assert.Equal(t, 1, summary.Downloaded)
		assert.Equal(t, []string{"good.jpg"}, f.files(t))
	})

	t.Run("strict aborts before downloading", func(t *testing.T) {
		f := newFixture(t, func(c *config.Config) { c.Input.Strict = true })
		good := f.write(t, "good.json", timelinetest.Document(timelinetest.AddEntries(
			timelinetest.Mutual("good", server.URL+"/g/good_normal.jpg"),
		)))
		bad := f.write(t, "bad.json", []byte(`{"data":{"user":{}}}`))

		summary, err := f.runner.Run(context.Background(), []string{good, bad})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput))
		assert.Contains(t, err.Error(), bad)

		assert.Equal(t, 1, summary.Files)
		assert.Equal(t, 0, summary.Attempted)
		assert.Empty(t, f.reporter.summaries)
		assert.Empty(t, f.files(t))
	})
}

func TestCollectMalformedEntry(t *testing.T) {
	broken := timelinetest.Mutual("broken", "")
	broken["content"].(map[string]interface{})["itemContent"] = map[string]interface{}{}

	data := timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("first", ""),
		broken,
		timelinetest.Mutual("second", ""),
	))

	t.Run("lenient", func(t *testing.T) {
		f := newFixture(t, nil)
		path := f.write(t, "followers.json", data)

		records, err := f.runner.CollectFile(path)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "first", records[0].Username)
		assert.Equal(t, "second", records[1].Username)
		assert.Equal(t, path, records[0].Source)
		assert.True(t, f.log.HasMessage("Skipping malformed entry"))
	})

	t.Run("strict", func(t *testing.T) {
		f := newFixture(t, func(c *config.Config) { c.Input.Strict = true })
		path := f.write(t, "followers.json", data)

		_, err := f.runner.CollectFile(path)
		require.Error(t, err)

		var entryErr *timeline.EntryError
		require.ErrorAs(t, err, &entryErr)
		assert.Equal(t, 1, entryErr.Index)
	})
}

func TestCollectKeepsFileThenEntryOrder(t *testing.T) {
	f := newFixture(t, nil)
	first := f.write(t, "1.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("b", ""),
		timelinetest.Mutual("a", ""),
	)))
	second := f.write(t, "2.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("c", ""),
	)))

	records, summary, err := f.runner.Collect([]string{first, second})
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		names = append(names, r.Username)
		assert.True(t, r.IsMutual)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, 3, summary.Mutuals)
	assert.Equal(t, 2, f.reporter.parsed[first])
}

func TestDownloadResultsInRecordOrder(t *testing.T) {
	images := map[string]string{}
	var names []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("user%02d", i)
		images["/"+name+".jpg"] = name
		names = append(names, name)
	}
	server := newAvatarServer(t, images)

	var records []timeline.UserRecord
	for _, name := range names {
		records = append(records, timeline.UserRecord{Username: name, AvatarURL: server.URL + "/" + name + ".jpg", IsMutual: true})
	}

	f := newFixture(t, func(c *config.Config) { c.Download.ConcurrentDownloads = 4 })
	results := f.runner.Download(context.Background(), records)

	require.Len(t, results, len(records))
	for i, res := range results {
		assert.Equal(t, records[i].Username, res.Record.Username)
		assert.True(t, res.Success, "download %d failed: %v", i, res.Err)
		assert.Equal(t, filepath.Join(f.folder, records[i].Username+".jpg"), res.Path)
	}
	assert.Len(t, f.files(t), len(records))
}

func TestRunCancelled(t *testing.T) {
	server := newAvatarServer(t, map[string]string{"/a.jpg": "a"})
	f := newFixture(t, nil)
	path := f.write(t, "followers.json", timelinetest.Document(timelinetest.AddEntries(
		timelinetest.Mutual("a", server.URL+"/a.jpg"),
	)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.runner.Run(ctx, []string{path})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Mutuals)
	assert.Equal(t, 0, summary.Downloaded)
	assert.Empty(t, f.files(t))
}

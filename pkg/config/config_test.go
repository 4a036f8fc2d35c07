package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "mutuals", config.Output.Folder)
	assert.Equal(t, 4, config.Download.ConcurrentDownloads)
	assert.Equal(t, 30*time.Second, config.Download.Timeout)
	assert.False(t, config.Input.Strict)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FETCHMOOTS_FOLDER", "/tmp/moots")
	t.Setenv("FETCHMOOTS_CONCURRENT_DOWNLOADS", "8")
	t.Setenv("FETCHMOOTS_TIMEOUT", "5s")
	t.Setenv("FETCHMOOTS_USER_AGENT", "fetchmoots-test")
	t.Setenv("FETCHMOOTS_STRICT", "TRUE")
	t.Setenv("FETCHMOOTS_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "/tmp/moots", config.Output.Folder)
	assert.Equal(t, 8, config.Download.ConcurrentDownloads)
	assert.Equal(t, 5*time.Second, config.Download.Timeout)
	assert.Equal(t, "fetchmoots-test", config.Download.UserAgent)
	assert.True(t, config.Input.Strict)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("FETCHMOOTS_CONCURRENT_DOWNLOADS", "many")
	t.Setenv("FETCHMOOTS_TIMEOUT", "soon")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCHMOOTS_CONCURRENT_DOWNLOADS")
	assert.Contains(t, err.Error(), "FETCHMOOTS_TIMEOUT")

	// untouched on failure
	assert.Equal(t, 4, config.Download.ConcurrentDownloads)
	assert.Equal(t, 30*time.Second, config.Download.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:      "empty folder",
			mutate:    func(c *Config) { c.Output.Folder = "  " },
			wantError: true,
		},
		{
			name:      "zero workers",
			mutate:    func(c *Config) { c.Download.ConcurrentDownloads = 0 },
			wantError: true,
		},
		{
			name:      "too many workers",
			mutate:    func(c *Config) { c.Download.ConcurrentDownloads = 33 },
			wantError: true,
		},
		{
			name:   "no timeout",
			mutate: func(c *Config) { c.Download.Timeout = 0 },
		},
		{
			name:      "negative timeout",
			mutate:    func(c *Config) { c.Download.Timeout = -time.Second },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
		{
			name: "tui with quiet",
			mutate: func(c *Config) {
				c.UI.TUI = true
				c.UI.Quiet = true
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := DefaultConfig()
	original.Output.Folder = "pictures"
	original.Download.ConcurrentDownloads = 2
	original.Download.Timeout = 10 * time.Second
	original.Input.Strict = true
	require.NoError(t, original.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))

	assert.Equal(t, "pictures", loaded.Output.Folder)
	assert.Equal(t, 2, loaded.Download.ConcurrentDownloads)
	assert.Equal(t, 10*time.Second, loaded.Download.Timeout)
	assert.True(t, loaded.Input.Strict)
}

func TestLoadFromFileErrors(t *testing.T) {
	config := DefaultConfig()
	assert.Error(t, config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output: [unclosed"), 0644))
	assert.Error(t, config.LoadFromFile(bad))
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"folder":     "out",
		"concurrent": 1,
		"timeout":    time.Duration(0),
		"strict":     true,
		"log-level":  "debug",
		"quiet":      true,
	})

	assert.Equal(t, "out", config.Output.Folder)
	assert.Equal(t, 1, config.Download.ConcurrentDownloads)
	assert.Equal(t, time.Duration(0), config.Download.Timeout)
	assert.True(t, config.Input.Strict)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.True(t, config.UI.Quiet)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  folder: from-file\ndownload:\n  concurrent_downloads: 2\n"), 0644))
	t.Setenv("FETCHMOOTS_CONCURRENT_DOWNLOADS", "6")

	config, err := Load(path, map[string]interface{}{"folder": "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", config.Output.Folder)
	assert.Equal(t, 6, config.Download.ConcurrentDownloads)
}

func TestLoadValidationFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load("", map[string]interface{}{"log-level": "shouting"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

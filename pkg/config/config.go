package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the tool reads
const EnvPrefix = "FETCHMOOTS_"

// Config holds all configuration options for fetchmoots
type Config struct {
	// Where pictures are written
	Output OutputConfig `yaml:"output" json:"output"`

	// HTTP and worker settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// How timeline files are interpreted
	Input InputConfig `yaml:"input" json:"input"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Console presentation
	UI UIConfig `yaml:"ui" json:"ui"`
}

// OutputConfig holds output folder configuration
type OutputConfig struct {
	Folder string `yaml:"folder" json:"folder"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent           string        `yaml:"user_agent" json:"user_agent"`
}

// InputConfig holds timeline parsing configuration
type InputConfig struct {
	// Strict aborts the run on the first malformed file or entry
	Strict bool `yaml:"strict" json:"strict"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// UIConfig holds console output preferences
type UIConfig struct {
	Quiet   bool `yaml:"quiet" json:"quiet"`
	NoColor bool `yaml:"no_color" json:"no_color"`
	TUI     bool `yaml:"tui" json:"tui"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Folder: "mutuals",
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 4,
			Timeout:             30 * time.Second,
		},
		Input: InputConfig{
			Strict: false,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if folder := os.Getenv(EnvPrefix + "FOLDER"); folder != "" {
		c.Output.Folder = folder
	}

	if concurrent := os.Getenv(EnvPrefix + "CONCURRENT_DOWNLOADS"); concurrent != "" {
		val, err := strconv.Atoi(concurrent)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENT_DOWNLOADS: %w", EnvPrefix, err))
		} else if val > 0 {
			c.Download.ConcurrentDownloads = val
		}
	}

	if timeout := os.Getenv(EnvPrefix + "TIMEOUT"); timeout != "" {
		val, err := time.ParseDuration(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			c.Download.Timeout = val
		}
	}

	if userAgent := os.Getenv(EnvPrefix + "USER_AGENT"); userAgent != "" {
		c.Download.UserAgent = userAgent
	}

	if strict := os.Getenv(EnvPrefix + "STRICT"); strict != "" {
		c.Input.Strict = strings.ToLower(strict) == "true"
	}

	if logLevel := os.Getenv(EnvPrefix + "LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv(EnvPrefix + "LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.NoColor = true
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".fetchmoots.yaml",
		".fetchmoots.yml",
		filepath.Join(home, ".config", "fetchmoots", "config.yaml"),
		filepath.Join(home, ".config", "fetchmoots", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Output.Folder) == "" {
		errs = append(errs, errors.New("output folder is required"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 32 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 32"))
	}
	// zero means no timeout, like a bare GET
	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("download timeout cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if c.UI.TUI && c.UI.Quiet {
		errs = append(errs, errors.New("tui and quiet modes are mutually exclusive"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override; callers add a key when the user set the flag.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if folder, ok := flags["folder"].(string); ok && folder != "" {
		c.Output.Folder = folder
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.ConcurrentDownloads = concurrent
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok {
		c.Download.Timeout = timeout
	}
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.Download.UserAgent = userAgent
	}
	if strict, ok := flags["strict"].(bool); ok {
		c.Input.Strict = strict
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
	if quiet, ok := flags["quiet"].(bool); ok {
		c.UI.Quiet = quiet
	}
	if noColor, ok := flags["no-color"].(bool); ok {
		c.UI.NoColor = noColor
	}
	if tui, ok := flags["tui"].(bool); ok {
		c.UI.TUI = tui
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".fetchmoots.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

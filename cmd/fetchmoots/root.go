package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"fetchmoots/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Flags
	configFile string
	folder     string
	concurrent int
	timeout    time.Duration
	userAgent  string
	strict     bool
	logLevel   string
	logFile    string
	quiet      bool
	noColor    bool
	useTUI     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetchmoots [flags] FILE...",
		Short: "Download profile pictures of your mutual followers",
		Long: `fetchmoots reads exported X/Twitter timeline JSON (the Followers and
Following GraphQL responses), keeps the users who follow you and whom you
follow back, and saves each one's full-size profile picture as
<folder>/<username>.<ext>.

Settings are read from, highest priority first:
  - Command line flags
  - Environment variables (FETCHMOOTS_*)
  - .env files (./.env, ~/.fetchmoots.env)
  - Configuration file (.fetchmoots.yaml, ~/.config/fetchmoots/config.yaml)
  - Default values`,
		Example: `  # Save mutuals found in both exports to ./mutuals
  fetchmoots followers.json following.json

  # Save to another folder with 8 parallel downloads
  fetchmoots --folder pics --concurrent 8 followers.json

  # Stop on the first malformed file or entry
  fetchmoots --strict followers.json`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE:          runFetch,
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (default is .fetchmoots.yaml or ~/.config/fetchmoots/config.yaml)")
	flags.StringVar(&folder, "folder", "mutuals", "folder to save profile pictures to")
	flags.IntVar(&concurrent, "concurrent", 4, "number of concurrent downloads")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "per-download timeout (0 disables)")
	flags.StringVar(&userAgent, "user-agent", "", "User-Agent header sent with downloads")
	flags.BoolVar(&strict, "strict", false, "abort on the first malformed file or entry")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")
	flags.StringVar(&logFile, "log-file", "", "also write logs to this file")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only print failures and the final summary")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&useTUI, "tui", false, "show an interactive progress view")

	cmd.SetVersionTemplate(`fetchmoots {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

// changedFlags returns the flags the user set, keyed the way
// config.MergeCommandLineFlags expects
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	values := map[string]interface{}{
		"folder":     folder,
		"concurrent": concurrent,
		"timeout":    timeout,
		"user-agent": userAgent,
		"strict":     strict,
		"log-level":  logLevel,
		"log-file":   logFile,
		"quiet":      quiet,
		"no-color":   noColor,
		"tui":        useTUI,
	}

	flags := make(map[string]interface{})
	for name, value := range values {
		if cmd.Flags().Changed(name) {
			flags[name] = value
		}
	}
	return flags
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fetchmoots/pkg/config"
	"fetchmoots/pkg/logger"
	"fetchmoots/pkg/mutuals"
	"fetchmoots/pkg/ui"
	"fetchmoots/pkg/ui/tui"
)

func runFetch(cmd *cobra.Command, args []string) error {
	// arguments parsed; later failures are not usage errors
	cmd.SilenceUsage = true

	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.InitializeWithWriter(&cfg.Logging, logConsole(cfg)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithFields(map[string]interface{}{
		"version": version,
		"files":   len(args),
		"folder":  cfg.Output.Folder,
	}).Info("fetchmoots starting")

	ui.SetQuietMode(cfg.UI.Quiet)
	ui.SetColorEnabled(ui.SupportsColor(os.Stdout, cfg.UI.NoColor))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UI.TUI {
		return runWithTUI(ctx, cfg, args)
	}

	runner := mutuals.NewFromConfig(cfg, ui.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	_, err = runner.Run(ctx, args)
	return err
}

// logConsole is where log lines go besides the log file. The progress view
// owns the terminal, so it gets none.
func logConsole(cfg *config.Config) io.Writer {
	if cfg.UI.TUI {
		return nil
	}
	return os.Stderr
}

// runWithTUI runs the downloads in the background while the progress view
// owns the terminal. Quitting the view cancels the run.
func runWithTUI(ctx context.Context, cfg *config.Config, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	terminal := tui.NewTUI()
	runner := mutuals.NewFromConfig(cfg, terminal)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, args)
		if err != nil {
			// the view only quits by itself on a completed run
			terminal.Stop()
		}
		done <- err
	}()

	userQuit, err := terminal.Start()
	if userQuit {
		logger.Warn("Progress view closed before the run finished")
	}
	if err != nil || userQuit {
		cancel()
	}

	runErr := <-done
	if err != nil {
		return fmt.Errorf("progress view failed: %w", err)
	}
	return runErr
}

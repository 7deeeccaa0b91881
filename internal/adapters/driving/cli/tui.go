package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/tui"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Pravo.

Pick a document from the menu, then type questions about it. Answers of the
visit stay in a history list you can browse.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open document / Ask
  Tab      - Switch between question and history
  Esc      - Back to menu
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := getApp()
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	go func() {
		if err := a.WatchPrompts(ctx); err != nil {
			logger.Debug("prompt watcher stopped: %v", err)
		}
	}()

	// Start scheduler if enabled (TUI is long-running, needs background tasks)
	if a.Settings.Scheduler.Enabled {
		go func() {
			if err := a.Scheduler.Start(ctx); err != nil && ctx.Err() == nil {
				// Log but don't fail - scheduler errors shouldn't block TUI
				logger.Warn("scheduler stopped: %v", err)
			}
		}()

		defer func() {
			if err := a.Scheduler.Stop(); err != nil {
				logger.Warn("scheduler stop error: %v", err)
			}
		}()
	}

	app, err := tui.NewApp(tui.NewPorts(a.Dispatcher))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

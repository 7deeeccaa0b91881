package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

var scheduleHistoryLimit int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the background document refresh",
}

var scheduleStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scheduler in the foreground",
	Long: `Warms up every engine, watches the prompt files and refreshes documents
on schedule until interrupted.`,
	RunE: runScheduleStart,
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the document refresh now",
	RunE:  runScheduleRun,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled tasks",
	RunE:  runScheduleStatus,
}

var scheduleHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent refresh runs",
	RunE:  runScheduleHistory,
}

func init() {
	scheduleHistoryCmd.Flags().IntVarP(&scheduleHistoryLimit, "limit", "n", 10, "maximum number of runs")
	scheduleCmd.AddCommand(scheduleStartCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
	scheduleCmd.AddCommand(scheduleHistoryCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleStart(cmd *cobra.Command, _ []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if !a.Settings.Scheduler.Enabled {
		return errors.New("scheduler is disabled, set scheduler.enabled = true")
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.Settings.RAG.WarmUpOnStart {
		for id, err := range a.WarmUp(ctx) {
			logger.Warn("warm-up %s: %v", id, err)
		}
	}

	cmd.Println("Scheduler running, press Ctrl+C to stop.")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.WatchPrompts(gctx)
	})
	g.Go(func() error {
		err := a.Scheduler.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	if stopErr := a.Scheduler.Stop(); stopErr != nil {
		logger.Warn("scheduler stop: %v", stopErr)
	}
	return err
}

func runScheduleRun(cmd *cobra.Command, _ []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.Println("Refreshing documents...")
	result, err := a.Scheduler.RunNow(ctx, domain.TaskIDDocumentRefresh)
	if result != nil {
		printTaskResult(cmd, *result)
	}
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	return nil
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tasks, err := a.SchedulerStore.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("No scheduled tasks yet. Run 'pravo schedule start' or 'pravo schedule run'.")
		return nil
	}

	for i := range tasks {
		task := &tasks[i]
		cmd.Printf("%s (%s)\n", task.Name, task.ID)
		cmd.Printf("  Enabled:  %t\n", task.Enabled)
		cmd.Printf("  Interval: %s\n", task.Interval)
		cmd.Printf("  Last run: %s\n", formatTime(task.LastRun))
		cmd.Printf("  Next run: %s\n", formatTime(task.NextRun))
		if task.LastError != "" {
			cmd.Printf("  Error:    %s\n", task.LastError)
		}
	}
	return nil
}

func runScheduleHistory(cmd *cobra.Command, _ []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := a.SchedulerStore.GetTaskHistory(ctx, domain.TaskIDDocumentRefresh, scheduleHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}
	for _, r := range results {
		printTaskResult(cmd, r)
	}
	return nil
}

func printTaskResult(cmd *cobra.Command, r domain.TaskResult) {
	outcome := "ok"
	if !r.Success {
		outcome = "failed"
	}
	cmd.Printf("%s  %-6s  attempts=%d  changed=%d  took %s\n",
		formatTime(r.StartedAt), outcome, r.Attempts, r.ItemsProcessed, r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond))
	if r.Error != "" {
		cmd.Printf("  %s\n", r.Error)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}

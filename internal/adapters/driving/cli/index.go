package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexuwunya/pravo-bot/internal/core/ports/driving"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index [document]",
	Short: "Build document indexes",
	Long: `Loads, validates and indexes documents so that the first question is fast.
If a document is provided, only that document is indexed.
Otherwise, all documents are indexed in parallel.

An existing index is reused unless --rebuild is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "discard and rebuild the index")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) > 0 {
		engine, err := a.Engine(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Indexing %s...\n", engine.Document().Name)
		if err := indexWithProgress(ctx, cmd, engine, indexRebuild); err != nil {
			return fmt.Errorf("index failed: %w", err)
		}
		status := engine.Status(ctx)
		cmd.Printf("%s indexed: %d chunks.\n", engine.Document().Name, status.Chunks)
		return nil
	}

	cmd.Println("Indexing all documents...")

	var failures map[string]error
	if indexRebuild {
		failures = make(map[string]error)
		for _, engine := range a.Engines() {
			if err := engine.Rebuild(ctx); err != nil {
				failures[engine.Document().ID] = err
			}
		}
	} else {
		failures = a.WarmUp(ctx)
	}

	for _, engine := range a.Engines() {
		status := engine.Status(ctx)
		cmd.Printf("  %-14s %-12s %d chunks\n", engine.Document().ID, status.State, status.Chunks)
	}

	if len(failures) > 0 {
		ids := make([]string, 0, len(failures))
		for id := range failures {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cmd.Printf("  %s: %v\n", id, failures[id])
		}
		return fmt.Errorf("index failed for %d document(s)", len(failures))
	}

	cmd.Println("All documents indexed successfully.")
	return nil
}

// indexWithProgress runs the build while displaying the engine state.
func indexWithProgress(ctx context.Context, cmd *cobra.Command, engine driving.RAGEngine, rebuild bool) error {
	errCh := make(chan error, 1)
	go func() {
		if rebuild {
			errCh <- engine.Rebuild(ctx)
			return
		}
		errCh <- engine.WarmUp(ctx)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case <-ticker.C:
			cmd.Printf("\r%s...", engine.State())
		}
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [document]",
	Short: "Re-scrape documents and rebuild changed indexes",
	Long: `Fetches the current text of documents from the legal portal.
A document whose text changed, or whose engine failed, is re-indexed.
Text that fails validation never replaces the cached copy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
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
		id := engine.Document().ID
		cmd.Printf("Refreshing %s...\n", id)

		changed, err := a.Refresh.Refresh(ctx, id)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		if changed {
			cmd.Printf("%s changed and was re-indexed.\n", id)
		} else {
			cmd.Printf("%s is up to date.\n", id)
		}
		return nil
	}

	cmd.Println("Refreshing all documents...")
	changed, err := a.Refresh.RefreshAll(ctx)
	cmd.Printf("%d document(s) changed.\n", changed)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	return nil
}

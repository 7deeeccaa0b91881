package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every document engine",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

type statusJSONRow struct {
	Document  string     `json:"document"`
	Name      string     `json:"name"`
	Trigger   string     `json:"trigger"`
	State     string     `json:"state"`
	Chunks    int        `json:"chunks"`
	LastError string     `json:"last_error,omitempty"`
	ReadyAt   *time.Time `json:"ready_at,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]statusJSONRow, 0, len(a.Engines()))
	for _, engine := range a.Engines() {
		st := engine.Status(ctx)
		row := statusJSONRow{
			Document:  st.Document.ID,
			Name:      st.Document.Name,
			Trigger:   st.Document.Trigger,
			State:     st.State.String(),
			Chunks:    st.Chunks,
			LastError: st.LastError,
		}
		if !st.ReadyAt.IsZero() {
			readyAt := st.ReadyAt
			row.ReadyAt = &readyAt
		}
		rows = append(rows, row)
	}

	if statusJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for _, row := range rows {
		cmd.Printf("  %s (%s)\n", row.Name, row.Document)
		cmd.Printf("    Trigger: %s\n", row.Trigger)
		cmd.Printf("    State:   %s\n", row.State)
		cmd.Printf("    Chunks:  %d\n", row.Chunks)
		if row.ReadyAt != nil {
			cmd.Printf("    Ready:   %s\n", row.ReadyAt.Format(time.RFC3339))
		}
		if row.LastError != "" {
			cmd.Printf("    Error:   %s\n", row.LastError)
		}
	}
	return nil
}

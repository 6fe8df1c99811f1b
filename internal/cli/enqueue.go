package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// enqueueRequest is the JSON object `enqueue` accepts: command (required),
// priority (1|2|3, optional), run_at (local "YYYY-MM-DD HH:MM:SS", optional).
type enqueueRequest struct {
	Command  string `json:"command"`
	Priority int    `json:"priority"`
	RunAt    string `json:"run_at"`
}

const runAtLayout = "2006-01-02 15:04:05"

func NewEnqueueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   `enqueue '{"command":"sleep 2"}'`,
		Short: "Add a job to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req enqueueRequest
			if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
				return fmt.Errorf("invalid job json: %w", err)
			}

			var runAt *time.Time
			if req.RunAt != "" {
				t, err := time.ParseInLocation(runAtLayout, req.RunAt, time.Local)
				if err != nil {
					return fmt.Errorf("invalid run_at %q (expected %q): %w", req.RunAt, runAtLayout, err)
				}
				runAt = &t
			}

			id, err := app.Store.Enqueue(cmd.Context(), req.Command, req.Priority, runAt)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewJobCmd implements `queuectl job <id>` — the full record including
// captured output.
func NewJobCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "Show a job's full record, including captured output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := app.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:           %s\n", j.ID)
			fmt.Fprintf(out, "command:      %s\n", j.Command)
			fmt.Fprintf(out, "state:        %s\n", j.State)
			fmt.Fprintf(out, "priority:     %d\n", j.Priority)
			fmt.Fprintf(out, "attempts:     %d/%d\n", j.Attempts, j.MaxRetries)
			fmt.Fprintf(out, "run_at:       %s\n", displayTime(j.RunAt))
			fmt.Fprintf(out, "created_at:   %s\n", displayTime(j.CreatedAt))
			fmt.Fprintf(out, "updated_at:   %s\n", displayTime(j.UpdatedAt))
			if j.StartedAt != nil {
				fmt.Fprintf(out, "started_at:   %s\n", displayTime(*j.StartedAt))
			}
			if j.FinishedAt != nil {
				fmt.Fprintf(out, "finished_at:  %s\n", displayTime(*j.FinishedAt))
			}
			if j.WorkerID != "" {
				fmt.Fprintf(out, "worker_id:    %s\n", j.WorkerID)
			}
			if j.ExitCode != nil {
				fmt.Fprintf(out, "exit_code:    %d\n", *j.ExitCode)
			}
			if j.Error != "" {
				fmt.Fprintf(out, "error:        %s\n", j.Error)
			}
			fmt.Fprintf(out, "\nstdout:\n%s\n", j.Stdout)
			fmt.Fprintf(out, "\nstderr:\n%s\n", j.Stderr)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/model"
)

var validListStates = map[string]bool{
	model.StatePending:    true,
	model.StateProcessing: true,
	model.StateCompleted:  true,
	model.StateFailed:     true,
	model.StateDead:       true,
}

func NewListCmd(app *App) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if state != "" && !validListStates[state] {
				return fmt.Errorf("unknown state %q (valid: pending, processing, completed, failed, dead)", state)
			}

			jobs, err := app.Store.List(cmd.Context(), state)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs found.")
				return nil
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, header(out, "ID\tSTATE\tPRI\tATTEMPTS\tCOMMAND"))
			for _, j := range jobs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d\t%s\n",
					j.ID, j.State, j.Priority, j.Attempts, j.MaxRetries, truncate(j.Command, 50))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by job state (pending,processing,completed,failed,dead)")
	return cmd
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}

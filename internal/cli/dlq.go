package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewDLQRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and retry dead letter jobs",
	}
	cmd.AddCommand(newDLQListCmd(app), newDLQRetryCmd(app))
	return cmd
}

func newDLQListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs in the dead letter queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := app.Store.ListDLQ(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs in DLQ.")
				return nil
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, header(out, "ID\tATTEMPTS\tERROR\tCOMMAND"))
			for _, j := range jobs {
				fmt.Fprintf(tw, "%s\t%d/%d\t%s\t%s\n", j.ID, j.Attempts, j.MaxRetries, truncate(j.Error, 40), truncate(j.Command, 40))
			}
			return tw.Flush()
		},
	}
}

func newDLQRetryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Move a job from the DLQ back to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.RetryDLQ(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "job returned to queue:", args[0])
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/model"
	"github.com/queuectl/queuectl/internal/supervisor"
)

// NewStatusCmd implements `status` — worker status plus
// queue depth, in one summary.
func NewStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show worker pool status and queue depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := app.Store.QueueStatus(cmd.Context())
			if err != nil {
				return err
			}

			sup, err := supervisor.New(app.Store, app.DBPath, zerolog.Nop())
			if err != nil {
				return err
			}
			statuses, err := sup.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "queue:")
			for _, st := range []string{model.StatePending, model.StateProcessing, model.StateCompleted, model.StateFailed, model.StateDead} {
				fmt.Fprintf(out, "  %-12s %d\n", st+":", counts[st])
			}
			fmt.Fprintf(out, "workers: %d running\n", len(statuses))
			return nil
		},
	}
}

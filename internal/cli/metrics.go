package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/model"
)

func NewMetricsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show totals, per-state counts, success rate, and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Store.Metrics(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total jobs:       %s\n", humanize.Comma(int64(m.Total)))
			for _, st := range []string{model.StatePending, model.StateProcessing, model.StateCompleted, model.StateFailed, model.StateDead} {
				fmt.Fprintf(out, "  %-12s %d\n", st+":", m.ByState[st])
			}
			fmt.Fprintf(out, "success rate:     %.1f%%\n", m.SuccessRate)
			fmt.Fprintf(out, "avg attempts:     %.2f\n", m.AverageAttempt)
			fmt.Fprintf(out, "last 24h:         %s job(s) touched\n", humanize.Comma(int64(m.Last24h)))
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/supervisor"
)

func NewWorkerRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the worker pool",
	}
	cmd.AddCommand(
		newWorkerStartCmd(app),
		newWorkerStopCmd(app),
		newWorkerRestartCmd(app),
		newWorkerStatusCmd(app),
	)
	return cmd
}

func newSupervisor(app *App) (*supervisor.Supervisor, error) {
	return supervisor.New(app.Store, app.DBPath, app.Log)
}

func newWorkerStartCmd(app *App) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("invalid worker count: %d", count)
			}
			sup, err := newSupervisor(app)
			if err != nil {
				return err
			}
			if err := sup.Start(cmd.Context(), count); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started %d worker(s)\n", count)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of workers to start")
	return cmd
}

func newWorkerStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Gracefully stop the running worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, err := newSupervisor(app)
			if err != nil {
				return err
			}
			if err := sup.Stop(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "worker pool stopped")
			return nil
		},
	}
}

func newWorkerRestartCmd(app *App) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("invalid worker count: %d", count)
			}
			sup, err := newSupervisor(app)
			if err != nil {
				return err
			}
			if err := sup.Restart(cmd.Context(), count); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restarted with %d worker(s)\n", count)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of workers to start")
	return cmd
}

func newWorkerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the worker pool's registry and liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			sup, err := newSupervisor(app)
			if err != nil {
				return err
			}
			statuses, err := sup.Status(cmd.Context())
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no workers running")
				return nil
			}
			for _, st := range statuses {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  pid=%d  started=%s\n", st.WorkerID, st.OSPID, displayTime(st.StartedAt))
			}
			return nil
		},
	}
}

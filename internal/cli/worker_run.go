package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/store"
	"github.com/queuectl/queuectl/internal/supervisor"
	"github.com/queuectl/queuectl/internal/worker"
)

// newWorkerRunCmd is the hidden subcommand the Supervisor re-execs its own
// binary into for every pool slot. It never appears in --help: it opens
// its own Store handle against the re-exec'd --db flag, since it runs as
// an independent OS process rather than sharing app's.
func newWorkerRunCmd(app *App) *cobra.Command {
	var dbPath, workerID string

	cmd := &cobra.Command{
		Use:    supervisor.WorkerRunSubcommand,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = app.DBPath
			}

			log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			exec := executor.New(log)
			w := worker.New(workerID, st, exec, log)

			ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals()...)
			defer cancel()

			w.Run(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the queue database")
	cmd.Flags().StringVar(&workerID, "worker-id", "", "worker identity to register claims under")
	_ = cmd.MarkFlagRequired("worker-id")

	return cmd
}

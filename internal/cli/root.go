// Package cli wires the Store/Supervisor/Executor core up to a cobra
// command tree. Every command is a thin collaborator over the core's
// operations — none of the claim/retry/DLQ logic lives here.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/store"
)

// App bundles the handles every command constructor needs. Passed in
// explicitly rather than held in package globals, so tests can build a
// fresh App per case.
type App struct {
	Store  *store.Store
	Exec   *executor.Executor
	DBPath string
	Log    zerolog.Logger
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "queuectl",
		Short:         "A single-node background job queue",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		NewEnqueueCmd(app),
		NewListCmd(app),
		NewJobCmd(app),
		NewWorkerRootCmd(app),
		NewDLQRootCmd(app),
		NewConfigRootCmd(app),
		NewMetricsCmd(app),
		NewStatusCmd(app),
		newWorkerRunCmd(app), // hidden; Supervisor re-execs into this
	)

	return cmd
}

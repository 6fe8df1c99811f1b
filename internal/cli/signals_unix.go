//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// shutdownSignals is what __worker-run listens for to begin a graceful
// drain: SIGTERM from the Supervisor's Stop, or SIGINT from an operator
// running it directly in a foreground shell.
func shutdownSignals() []os.Signal {
	return []os.Signal{syscall.SIGTERM, syscall.SIGINT}
}

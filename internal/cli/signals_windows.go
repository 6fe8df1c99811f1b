//go:build windows

package cli

import "os"

// shutdownSignals has no SIGTERM equivalent on Windows; __worker-run there
// only reacts to an interactive Ctrl-C, since the Supervisor's Stop falls
// back to a direct process kill on this platform.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

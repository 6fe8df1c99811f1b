//go:build windows

package supervisor

import (
	"os"
	"os/exec"
)

// Windows has no setsid equivalent exposed this simply; the child still
// runs detached from the parent's console because cobra's own process
// isn't a controlling terminal in the way a POSIX shell session is.
func detachProcess(cmd *exec.Cmd) {}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// FindProcess on Windows opens a handle; signaling 0 isn't supported,
	// so release immediately — liveness there is approximate at best.
	_ = proc.Release()
	return true
}

// signalGraceful has no POSIX-signal equivalent on Windows; Stop's grace
// period is skipped there in favor of an immediate force-kill.
func signalGraceful(pid int) error {
	return signalKill(pid)
}

func signalKill(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// detachProcess starts the worker in its own session so it survives the
// supervisor CLI invocation exiting and isn't killed by terminal signals
// meant for the parent.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// processAlive uses signal 0 to probe a PID without actually signaling it.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil
}

func signalGraceful(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

func signalKill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}

//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

const shellPath = "sh"
const shellFlag = "-c"

// setProcessGroup puts the shell in its own process group so a timeout can
// kill the whole tree (pipelines, subshells) rather than just "sh".
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateFunc drives the SIGTERM half of the SIGTERM-then-grace-then-
// SIGKILL sequence; cmd.WaitDelay handles the SIGKILL escalation once
// this returns. That SIGKILL reaches only the shell process, not the rest
// of its process group.
func terminateFunc(cmd *exec.Cmd) func() error {
	return func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}

//go:build windows

package executor

import "os/exec"

const shellPath = "cmd"
const shellFlag = "/C"

// Windows has no process-group signal semantics comparable to POSIX; a
// timeout force-kills the direct child and accepts that detached
// grandchildren may be left running.
func setProcessGroup(cmd *exec.Cmd) {}

func terminateFunc(cmd *exec.Cmd) func() error {
	return func() error {
		return cmd.Process.Kill()
	}
}

// Package executor runs a single shell command to terminal outcome under a
// hard wall-clock timeout, capturing its output. It never returns an error
// for a normal command failure — that's reported through Result so the
// worker can distinguish "ran and exited non-zero" from "never ran at all."
package executor

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// outputLimit bounds captured stdout/stderr per stream.
const outputLimit = 64 * 1024

const truncationMarker = "\n...[truncated]"

// Result is the outcome of one execution attempt.
type Result struct {
	ExitCode   int
	Stdout     string
	Stderr     string
	TimedOut   bool
	SpawnError error
}

// Executor runs commands through the host's shell.
type Executor struct {
	// GraceWindow is how long a timed-out process gets between SIGTERM and
	// SIGKILL before being force-killed. Honored on POSIX only; other
	// platforms force-kill immediately.
	GraceWindow time.Duration
	log         zerolog.Logger
}

func New(log zerolog.Logger) *Executor {
	return &Executor{GraceWindow: 3 * time.Second, log: log}
}

// Execute runs command via the host shell and enforces timeoutSeconds as a
// hard wall-clock deadline, terminating the process tree if exceeded.
func (e *Executor) Execute(ctx context.Context, command string, timeoutSeconds int) Result {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 300
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	cmd := shellCommand(runCtx, command)
	setProcessGroup(cmd)

	var stdoutBuf, stderrBuf boundedBuffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	cmd.Cancel = terminateFunc(cmd)
	cmd.WaitDelay = e.GraceWindow

	err := cmd.Run()

	res := Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case asExitError(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		// Could not even spawn the shell (missing binary, fork failure).
		e.log.Error().Err(err).Str("command", command).Msg("spawn failure")
		res.SpawnError = err
		res.ExitCode = -1
	}

	return res
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, shellPath, shellFlag, command)
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

// boundedBuffer caps writes at outputLimit and appends a truncation marker
// once exceeded, instead of growing unbounded for chatty commands.
type boundedBuffer struct {
	buf       bytes.Buffer
	truncated bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if b.truncated {
		return n, nil
	}
	remaining := outputLimit - b.buf.Len()
	if remaining <= 0 {
		b.truncated = true
		b.buf.WriteString(truncationMarker)
		return n, nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		b.buf.WriteString(truncationMarker)
		return n, nil
	}
	b.buf.Write(p)
	return n, nil
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}

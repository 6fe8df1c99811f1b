// Package worker implements the single-threaded claim -> execute -> update
// loop. A Worker never holds more than one claim at a time.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/model"
	"github.com/queuectl/queuectl/internal/store"
)

const (
	minPollInterval = 300 * time.Millisecond
	maxPollInterval = 3 * time.Second
)

// Worker polls the Store for eligible jobs and runs them one at a time
// through an Executor.
type Worker struct {
	ID       string
	Store    *store.Store
	Executor *executor.Executor
	log      zerolog.Logger
}

func New(id string, st *store.Store, exec *executor.Executor, log zerolog.Logger) *Worker {
	return &Worker{
		ID:       id,
		Store:    st,
		Executor: exec,
		log:      log.With().Str("worker_id", id).Logger(),
	}
}

// Run blocks until ctx is cancelled. On cancellation it finishes any job
// currently in flight before returning — a scheduled job whose run_at has
// arrived must still start within a bounded poll interval, but once a job
// is claimed it runs to completion even during shutdown.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info().Msg("worker started")
	poll := minPollInterval

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker shutting down gracefully")
			return
		default:
		}

		job, err := w.Store.ClaimOne(ctx, w.ID)
		if err != nil {
			w.log.Error().Err(err).Msg("claim error")
			sleep(ctx, poll)
			poll = backoffPoll(poll)
			continue
		}
		if job == nil {
			sleep(ctx, poll)
			poll = backoffPoll(poll)
			continue
		}

		poll = minPollInterval
		w.runJob(ctx, job)
	}
}

// runJob executes a claimed job and writes back its outcome under a context
// detached from Run's cancellation: once claimed, a job runs to completion
// and its result is recorded even if shutdown begins mid-execution. Run's
// ctx is only used to break out of the poll loop between claims.
func (w *Worker) runJob(ctx context.Context, job *model.Job) {
	log := w.log.With().Str("job_id", job.ID).Int("attempt", job.Attempts+1).Logger()
	log.Info().Str("command", job.Command).Msg("running job")

	execCtx := context.WithoutCancel(ctx)

	timeout := w.Store.JobTimeout(execCtx)
	result := w.Executor.Execute(execCtx, job.Command, timeout)

	switch {
	case result.SpawnError != nil:
		w.recordFailure(execCtx, job, result, result.SpawnError.Error(), log)
	case result.TimedOut:
		w.recordFailure(execCtx, job, result, "timeout", log)
	case result.ExitCode == 0:
		if err := w.Store.Complete(execCtx, job.ID, result.Stdout, result.Stderr); err != nil {
			log.Error().Err(err).Msg("failed to record completion")
			return
		}
		log.Info().Msg("job completed")
	default:
		w.recordFailure(execCtx, job, result, errorSummary(result), log)
	}
}

func (w *Worker) recordFailure(ctx context.Context, job *model.Job, result executor.Result, errMsg string, log zerolog.Logger) {
	outcome, err := w.Store.Fail(ctx, job.ID, result.ExitCode, result.Stdout, result.Stderr, errMsg)
	if err != nil {
		log.Error().Err(err).Msg("failed to record failure")
		return
	}
	if outcome == model.OutcomeDead {
		log.Warn().Str("error", errMsg).Msg("job moved to dead letter queue")
	} else {
		log.Warn().Str("error", errMsg).Msg("job failed, retry scheduled")
	}
}

func errorSummary(r executor.Result) string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return "command exited non-zero"
}

func backoffPoll(current time.Duration) time.Duration {
	next := current * 2
	if next > maxPollInterval {
		return maxPollInterval
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

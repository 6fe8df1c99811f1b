//go:build !windows

package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/model"
	"github.com/queuectl/queuectl/internal/store"
)

func newTestWorker(t *testing.T) (*Worker, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	w := New("worker-1", st, executor.New(zerolog.Nop()), zerolog.Nop())
	return w, st
}

func TestRunCompletesASuccessfulJob(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "echo done", model.PriorityNormal, nil)
	require.NoError(t, err)

	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()
	w.Run(runCtx)

	job, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StateCompleted, job.State)
	require.Equal(t, "done\n", job.Stdout)
}

func TestRunSchedulesRetryOnFailure(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()
	require.NoError(t, st.SetConfig(ctx, model.ConfigMaxRetries, "5"))

	id, err := st.Enqueue(ctx, "exit 3", model.PriorityNormal, nil)
	require.NoError(t, err)

	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()
	w.Run(runCtx)

	job, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StatePending, job.State)
	require.Equal(t, 1, job.Attempts)
}

func TestRunFinishesInFlightJobAfterCancellation(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "sleep 1 && echo done", model.PriorityNormal, nil)
	require.NoError(t, err)

	// Cancel well before the in-flight command finishes, so a worker that
	// plumbed this cancellation into Execute/Complete would kill the
	// command and fail to write back its outcome.
	runCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	w.Run(runCtx)

	job, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StateCompleted, job.State, "a claimed job must run to completion and record its outcome despite shutdown")
	require.Equal(t, "done\n", job.Stdout)
}

func TestRunStopsClaimingNewWorkOnCancellation(t *testing.T) {
	w, st := newTestWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Enqueue(context.Background(), "echo hi", model.PriorityNormal, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return promptly after context cancellation")
	}
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/queuectl/queuectl/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestEnqueueDefaultsPriorityAndRunAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "echo hi", 0, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	job, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.PriorityNormal, job.Priority)
	require.Equal(t, model.StatePending, job.State)
	require.False(t, job.RunAt.After(time.Now()))
}

func TestEnqueueRejectsEmptyCommand(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Enqueue(context.Background(), "", model.PriorityNormal, nil)
	require.Error(t, err)
}

func TestEnqueueRejectsInvalidPriority(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Enqueue(context.Background(), "echo hi", 9, nil)
	require.Error(t, err)
}

func TestClaimOneRespectsPriorityAndRunAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	future := time.Now().Add(time.Hour)
	_, err := st.Enqueue(ctx, "not-yet", model.PriorityHigh, &future)
	require.NoError(t, err)

	lowID, err := st.Enqueue(ctx, "low-priority", model.PriorityLow, nil)
	require.NoError(t, err)

	highID, err := st.Enqueue(ctx, "high-priority", model.PriorityHigh, nil)
	require.NoError(t, err)

	job, err := st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, highID, job.ID)
	require.Equal(t, model.StateProcessing, job.State)
	require.Equal(t, "worker-1", job.WorkerID)

	job, err = st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, lowID, job.ID)

	job, err = st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.Nil(t, job, "the future-scheduled job must not be eligible yet")
}

func TestClaimOneReturnsNilWhenQueueEmpty(t *testing.T) {
	st := newTestStore(t)
	job, err := st.ClaimOne(context.Background(), "worker-1")
	require.NoError(t, err)
	require.Nil(t, job)
}

func TestCompleteRequiresProcessingState(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "echo hi", model.PriorityNormal, nil)
	require.NoError(t, err)

	err = st.Complete(ctx, id, "out", "")
	require.Error(t, err, "a pending job can't be completed without being claimed first")

	job, err := st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, id, job.ID)

	require.NoError(t, st.Complete(ctx, id, "out", ""))

	job, err = st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StateCompleted, job.State)
	require.Equal(t, "out", job.Stdout)
	require.Empty(t, job.WorkerID)
}

func TestFailSchedulesRetryThenMovesToDeadAfterMaxRetries(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SetConfig(ctx, model.ConfigMaxRetries, "1"))
	require.NoError(t, st.SetConfig(ctx, model.ConfigBackoffBase, "0"))

	id, err := st.Enqueue(ctx, "false", model.PriorityNormal, nil)
	require.NoError(t, err)

	job, err := st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, id, job.ID)

	outcome, err := st.Fail(ctx, id, 1, "", "boom", "exit status 1")
	require.NoError(t, err)
	require.Equal(t, model.OutcomeRetryScheduled, outcome)

	job, err = st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StatePending, job.State)
	require.Equal(t, 1, job.Attempts)

	job, err = st.ClaimOne(ctx, "worker-2")
	require.NoError(t, err)
	require.Equal(t, id, job.ID)

	outcome, err = st.Fail(ctx, id, 1, "", "boom again", "exit status 1")
	require.NoError(t, err)
	require.Equal(t, model.OutcomeDead, outcome)

	job, err = st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StateDead, job.State)
}

func TestFailRequiresProcessingState(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "false", model.PriorityNormal, nil)
	require.NoError(t, err)

	_, err = st.Fail(ctx, id, 1, "", "", "not processing")
	require.Error(t, err)
}

func TestDLQListAndRetry(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SetConfig(ctx, model.ConfigMaxRetries, "0"))

	id, err := st.Enqueue(ctx, "false", model.PriorityNormal, nil)
	require.NoError(t, err)

	job, err := st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, id, job.ID)

	outcome, err := st.Fail(ctx, id, 1, "", "", "boom")
	require.NoError(t, err)
	require.Equal(t, model.OutcomeDead, outcome)

	dead, err := st.ListDLQ(ctx)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	require.Equal(t, id, dead[0].ID)

	require.NoError(t, st.RetryDLQ(ctx, id))

	job, err = st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StatePending, job.State)
	require.Equal(t, 0, job.Attempts)
}

func TestRetryDLQRejectsNonDeadJob(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "echo hi", model.PriorityNormal, nil)
	require.NoError(t, err)

	err = st.RetryDLQ(ctx, id)
	require.Error(t, err)
}

func TestRetryDLQRejectsUnknownJob(t *testing.T) {
	st := newTestStore(t)
	err := st.RetryDLQ(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestOpenDoesNotAutoRecoverOrphans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")
	st, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "echo hi", model.PriorityNormal, nil)
	require.NoError(t, err)

	job, err := st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, id, job.ID)

	require.NoError(t, st.Close())

	st2, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st2.Close() })

	job, err = st2.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StateProcessing, job.State, "Open must not silently reset a live claim")
}

func TestRecoverOrphansResetsProcessingExplicitly(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, "echo hi", model.PriorityNormal, nil)
	require.NoError(t, err)

	job, err := st.ClaimOne(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, id, job.ID)

	require.NoError(t, st.RecoverOrphans(ctx))

	job, err = st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.StatePending, job.State)
	require.Empty(t, job.WorkerID)
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerRegistryRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.RegisterWorker(ctx, "w1", 1234))
	require.NoError(t, st.RegisterWorker(ctx, "w2", 5678))

	workers, err := st.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)

	require.NoError(t, st.UnregisterWorker(ctx, "w1"))
	workers, err = st.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	require.Equal(t, "w2", workers[0].WorkerID)

	require.NoError(t, st.ClearRegistry(ctx))
	workers, err = st.ListWorkers(ctx)
	require.NoError(t, err)
	require.Empty(t, workers)
}

func TestRegisterWorkerUpsertsOnConflict(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.RegisterWorker(ctx, "w1", 1111))
	require.NoError(t, st.RegisterWorker(ctx, "w1", 2222))

	workers, err := st.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	require.Equal(t, 2222, workers[0].OSPID)
}

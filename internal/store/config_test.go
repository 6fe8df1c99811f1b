package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/queuectl/queuectl/internal/model"
)

func TestConfigDefaultsAreSeededOnOpen(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	cfg, err := st.AllConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "3", cfg[model.ConfigMaxRetries])
	require.Equal(t, "2", cfg[model.ConfigBackoffBase])
	require.Equal(t, "300", cfg[model.ConfigJobTimeout])
}

func TestSetConfigOverwritesExistingKey(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetConfig(ctx, model.ConfigJobTimeout, "60"))

	val, err := st.GetConfig(ctx, model.ConfigJobTimeout)
	require.NoError(t, err)
	require.Equal(t, "60", val)
	require.Equal(t, 60, st.JobTimeout(ctx))
}

func TestGetConfigReturnsEmptyForUnknownKey(t *testing.T) {
	st := newTestStore(t)
	val, err := st.GetConfig(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.Empty(t, val)
}

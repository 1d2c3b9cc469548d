package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/vitaflow/internal/kv"
	"github.com/jask/vitaflow/internal/kv/kvtest"
)

func TestContract(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store { return New() })
}

func TestClosedStoreRejectsOps(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())
	_, _, err := s.Get(context.Background(), "k")
	require.ErrorIs(t, err, kv.ErrClosed)
	require.ErrorIs(t, s.Set(context.Background(), "k", "v"), kv.ErrClosed)
	require.ErrorIs(t, s.Clear(context.Background()), kv.ErrClosed)
}

func TestNewWithCopiesSeed(t *testing.T) {
	seed := map[string]string{"smoking": "No"}
	s := NewWith(seed)
	seed["smoking"] = "Yes"
	v, ok, err := s.Get(context.Background(), "smoking")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "No", v)
	require.Equal(t, map[string]string{"smoking": "No"}, s.Snapshot())
}

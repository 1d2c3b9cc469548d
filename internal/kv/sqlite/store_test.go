package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/vitaflow/internal/kv"
	"github.com/jask/vitaflow/internal/kv/kvtest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vitaflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestContract(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store { return openTemp(t) })
}

func TestReopenKeepsEntriesAndMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vitaflow.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "session", `{"version":1}`))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	v, ok, err := s.Get(ctx, "session")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"version":1}`, v)
}

func TestSetManyIsOneTransaction(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	require.NoError(t, s.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count))
	require.Equal(t, 2, count)
}

func TestClosedStoreReportsErrClosed(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "vitaflow.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Set(context.Background(), "k", "v"), kv.ErrClosed)
}

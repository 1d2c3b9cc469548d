// Package kvtest holds the behavioral contract every kv.Store driver must meet.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/vitaflow/internal/kv"
)

// Factory returns a fresh, empty store. Drivers that persist should return a
// store backed by a new location on every call.
type Factory func(t *testing.T) kv.Store

// Run exercises get/set/clear semantics against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(ctx, "prioritizedConcerns")
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "prioritizedConcerns", `["Sleep","Energy"]`))
		v, ok, err := s.Get(ctx, "prioritizedConcerns")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, `["Sleep","Energy"]`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "smoking", "Yes"))
		require.NoError(t, s.Set(ctx, "smoking", "No"))
		v, ok, err := s.Get(ctx, "smoking")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "No", v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "selectedAllergies", ""))
		_, ok, err := s.Get(ctx, "selectedAllergies")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("clear removes everything", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))
		require.NoError(t, s.Clear(ctx))
		for _, k := range []string{"a", "b"} {
			_, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			require.False(t, ok, "key %s survived clear", k)
		}
		// the store stays usable after a clear
		require.NoError(t, s.Set(ctx, "a", "3"))
		v, _, err := s.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, "3", v)
	})

	t.Run("set all", func(t *testing.T) {
		s := newStore(t)
		entries := map[string]string{"sunExposure": "Yes", "smoking": "No", "alcoholConsumption": "5+"}
		require.NoError(t, kv.SetAll(ctx, s, entries))
		for k, want := range entries {
			got, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, want, got)
		}
	})
}

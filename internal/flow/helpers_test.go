package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jask/vitaflow/internal/kv"
	"github.com/jask/vitaflow/internal/kv/memory"
	"github.com/jask/vitaflow/internal/session"
)

var errDisk = errors.New("disk on fire")

// spyStore counts writes against a memory store and can be told to fail.
type spyStore struct {
	mem       *memory.Store
	writes    int
	clears    int
	failRead  bool
	failWrite bool
}

func newSpyStore(seed map[string]string) *spyStore {
	return &spyStore{mem: memory.NewWith(seed)}
}

func (s *spyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failRead {
		return "", false, errDisk
	}
	return s.mem.Get(ctx, key)
}

func (s *spyStore) Set(ctx context.Context, key, value string) error {
	s.writes++
	if s.failWrite {
		return errDisk
	}
	return s.mem.Set(ctx, key, value)
}

func (s *spyStore) SetMany(ctx context.Context, entries map[string]string) error {
	s.writes++
	if s.failWrite {
		return errDisk
	}
	return s.mem.SetMany(ctx, entries)
}

func (s *spyStore) Clear(ctx context.Context) error {
	s.clears++
	if s.failWrite {
		return errDisk
	}
	return s.mem.Clear(ctx)
}

func (s *spyStore) Close() error { return s.mem.Close() }

func (s *spyStore) entries() map[string]string { return s.mem.Snapshot() }

var (
	_ kv.Store   = (*spyStore)(nil)
	_ kv.Batcher = (*spyStore)(nil)
)

type fakeRecorder struct {
	transitions []string
	failures    []string
	completed   int
}

func (r *fakeRecorder) Transition(from, to string) {
	r.transitions = append(r.transitions, from+">"+to)
}

func (r *fakeRecorder) ValidationFailed(step, field string) {
	r.failures = append(r.failures, step+"/"+field)
}

func (r *fakeRecorder) Completed() { r.completed++ }

type harness struct {
	flow  *Flow
	store *spyStore
	repo  *session.Repository
	rec   *fakeRecorder
	logs  *observer.ObservedLogs
}

type harnessOpts struct {
	policy Policy
	layout session.Layout
	start  StepID
	seed   map[string]string
}

func newHarness(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	store := newSpyStore(o.seed)
	repo := session.NewRepository(store, o.layout)
	rec := &fakeRecorder{}
	f := New(repo, Options{Policy: o.policy, Logger: zap.New(core), Metrics: rec, Start: o.start})
	f.Start(context.Background())
	return &harness{flow: f, store: store, repo: repo, rec: rec, logs: logs}
}

// atConcerns returns a harness already moved past the home step.
func atConcerns(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	h := newHarness(t, o)
	h.flow.Home().Start(context.Background())
	require.Equal(t, StepConcerns, h.flow.Current())
	return h
}

func toggleAll(t *testing.T, c *Concerns, names ...string) {
	t.Helper()
	for _, n := range names {
		require.True(t, c.Toggle(context.Background(), n), n)
	}
}

package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/vitaflow/internal/session"
)

func atDiet(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	h := atConcerns(t, o)
	toggleAll(t, h.flow.Concerns(), "Sleep", "Energy")
	require.NoError(t, h.flow.Concerns().Proceed(context.Background()))
	require.Equal(t, StepDiet, h.flow.Current())
	return h
}

func TestDietToggleFlipsMembership(t *testing.T) {
	h := atDiet(t, harnessOpts{})
	d := h.flow.Diet()
	ctx := context.Background()

	require.True(t, d.Toggle(ctx, 1))
	require.True(t, d.Toggle(ctx, 4))
	require.True(t, d.IsSelected(1))
	require.Equal(t, []string{"Vegan", "Pescatarian"}, d.Selected())

	require.True(t, d.Toggle(ctx, 1))
	require.False(t, d.IsSelected(1))
	require.Equal(t, []string{"Pescatarian"}, d.Selected())

	require.False(t, d.Toggle(ctx, 99))
	require.Equal(t, PhaseEditing, h.flow.Phase(StepDiet))
}

func TestDietTogglePersistencePolicy(t *testing.T) {
	ctx := context.Background()

	deferred := atDiet(t, harnessOpts{policy: Deferred, layout: session.LayoutKeys})
	writes := deferred.store.writes
	deferred.flow.Diet().Toggle(ctx, 2)
	require.Equal(t, writes, deferred.store.writes)
	require.NotContains(t, deferred.store.entries(), "selectedDiets")

	through := atDiet(t, harnessOpts{policy: WriteThrough, layout: session.LayoutKeys})
	through.flow.Diet().Toggle(ctx, 2)
	require.Equal(t, `["Vegetarian"]`, through.store.entries()["selectedDiets"])
}

func TestDeferredDietStaysOutOfRecordUntilProceed(t *testing.T) {
	h := atConcerns(t, harnessOpts{policy: Deferred, layout: session.LayoutRecord})
	ctx := context.Background()
	toggleAll(t, h.flow.Concerns(), "Sleep")
	require.NoError(t, h.flow.Concerns().Proceed(ctx))

	require.True(t, h.flow.Diet().Toggle(ctx, 2))
	h.flow.Diet().Back(ctx)
	require.Equal(t, StepConcerns, h.flow.Current())
	toggleAll(t, h.flow.Concerns(), "Mood")

	st, found, err := h.repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"Sleep", "Mood"}, st.PrioritizedConcerns)
	require.Empty(t, st.SelectedDiets)

	require.NoError(t, h.flow.Concerns().Proceed(ctx))
	require.True(t, h.flow.Diet().Toggle(ctx, 1))
	require.NoError(t, h.flow.Diet().Proceed(ctx))
	st, _, err = h.repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Vegan"}, st.SelectedDiets)
}

func TestDietInfo(t *testing.T) {
	h := atDiet(t, harnessOpts{})
	d := h.flow.Diet()

	_, ok := d.Info()
	require.False(t, ok)
	require.True(t, d.ShowInfo(6))
	info, ok := d.Info()
	require.True(t, ok)
	require.Equal(t, "Ketogenic", info.Name)
	require.NotEmpty(t, info.Info)
	require.False(t, d.ShowInfo(0))

	d.HideInfo()
	_, ok = d.Info()
	require.False(t, ok)
	require.Empty(t, d.Selected())
}

func TestDietProceedRequiresSelection(t *testing.T) {
	h := atDiet(t, harnessOpts{})

	err := h.flow.Diet().Proceed(context.Background())
	var verr *session.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, session.MsgNoDiet, verr.Message)
	require.Equal(t, StepDiet, h.flow.Current())
	require.Equal(t, PhaseBlocked, h.flow.Phase(StepDiet))
}

func TestDietProceedPersistsAndForwards(t *testing.T) {
	h := atDiet(t, harnessOpts{policy: Deferred, layout: session.LayoutKeys})
	d := h.flow.Diet()
	ctx := context.Background()
	d.Toggle(ctx, 3)

	require.NoError(t, d.Proceed(ctx))
	require.Equal(t, StepAllergies, h.flow.Current())

	entries := h.store.entries()
	require.Equal(t, `["Plant Based"]`, entries["selectedDiets"])
	require.Equal(t, `["Sleep","Energy"]`, entries["prioritizedConcerns"])

	wire, err := h.flow.Params().Encode()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"selectedDiets":       `["Plant Based"]`,
		"prioritizedConcerns": `["Sleep","Energy"]`,
	}, wire)
}

func TestDietMountSelfHealsFromStore(t *testing.T) {
	h := newHarness(t, harnessOpts{
		start:  StepDiet,
		layout: session.LayoutKeys,
		seed: map[string]string{
			"selectedDiets":       `["Vegan"]`,
			"prioritizedConcerns": `["Mood"]`,
		},
	})
	require.Equal(t, []string{"Vegan"}, h.flow.Diet().Selected())
	require.Equal(t, []string{"Mood"}, h.flow.State().PrioritizedConcerns)
}

func TestDietMountDropsUnknownNames(t *testing.T) {
	h := newHarness(t, harnessOpts{
		start:  StepDiet,
		layout: session.LayoutKeys,
		seed:   map[string]string{"selectedDiets": `["Raw Food","Ketogenic"]`},
	})
	require.Equal(t, []string{"Ketogenic"}, h.flow.Diet().Selected())
	require.True(t, h.flow.Diet().IsSelected(6))
}

func TestDietBackKeepsConcerns(t *testing.T) {
	h := atDiet(t, harnessOpts{})
	h.flow.Diet().Back(context.Background())

	require.Equal(t, StepConcerns, h.flow.Current())
	require.Equal(t, []string{"Sleep", "Energy"}, h.flow.Concerns().Selected())
}

package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/vitaflow/internal/session"
)

func atAllergies(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	h := atDiet(t, o)
	require.True(t, h.flow.Diet().Toggle(context.Background(), 1))
	require.NoError(t, h.flow.Diet().Proceed(context.Background()))
	require.Equal(t, StepAllergies, h.flow.Current())
	return h
}

func TestAllergiesSearch(t *testing.T) {
	h := atAllergies(t, harnessOpts{})
	a := h.flow.Allergies()
	ctx := context.Background()

	require.Equal(t, []string{"Milk"}, a.Search("milk"))
	require.Equal(t, []string{"Milk"}, a.Search("MiL"))
	require.Nil(t, a.Search(""))
	require.Nil(t, a.Search("   "))
	require.Equal(t, []string{"Milk"}, a.Search(" milk "))

	require.True(t, a.SelectSuggestion(ctx, "Milk"))
	require.Empty(t, a.Search("milk"))
	require.Equal(t, []string{"Nasacort", "Nasalide", "Nasonex"}, a.Search("na"))
}

func TestAllergiesSelectSuggestion(t *testing.T) {
	h := atAllergies(t, harnessOpts{layout: session.LayoutKeys})
	a := h.flow.Allergies()
	ctx := context.Background()

	a.Search("whe")
	require.True(t, a.SelectSuggestion(ctx, "Wheat"))
	require.Empty(t, a.Query())
	require.Equal(t, `["Wheat"]`, h.store.entries()["selectedAllergies"])

	require.False(t, a.SelectSuggestion(ctx, "wheat"))
	require.False(t, a.SelectSuggestion(ctx, "Peanut"))
	require.Equal(t, []string{"Wheat"}, a.Selected())
}

func TestAllergiesRemoveIsIdempotent(t *testing.T) {
	h := atAllergies(t, harnessOpts{layout: session.LayoutKeys})
	a := h.flow.Allergies()
	ctx := context.Background()
	a.SelectSuggestion(ctx, "Milk")
	a.SelectSuggestion(ctx, "Meat")

	require.True(t, a.Remove(ctx, "Milk"))
	require.Equal(t, `["Meat"]`, h.store.entries()["selectedAllergies"])

	writes := h.store.writes
	require.False(t, a.Remove(ctx, "Milk"))
	require.Equal(t, []string{"Meat"}, a.Selected())
	require.Equal(t, writes, h.store.writes)
}

func TestAllergiesNearest(t *testing.T) {
	h := atAllergies(t, harnessOpts{})
	a := h.flow.Allergies()

	got, ok := a.Nearest("mlik")
	require.True(t, ok)
	require.Equal(t, "Milk", got)

	got, ok = a.Nearest("wheet")
	require.True(t, ok)
	require.Equal(t, "Wheat", got)

	_, ok = a.Nearest("shellfish")
	require.False(t, ok)
	_, ok = a.Nearest("")
	require.False(t, ok)
}

func TestAllergiesProceedAllowsEmpty(t *testing.T) {
	h := atAllergies(t, harnessOpts{layout: session.LayoutKeys})

	require.NoError(t, h.flow.Allergies().Proceed(context.Background()))
	require.Equal(t, StepLifestyle, h.flow.Current())

	p := h.flow.Params()
	require.Equal(t, []string{"Vegan"}, p.SelectedDiets)
	require.Equal(t, []string{"Sleep", "Energy"}, p.PrioritizedConcerns)
	require.NotNil(t, p.SelectedAllergies)
	require.Empty(t, p.SelectedAllergies)

	entries := h.store.entries()
	require.Equal(t, `["Vegan"]`, entries["selectedDiets"])
	require.Equal(t, `["Sleep","Energy"]`, entries["prioritizedConcerns"])
}

func TestAllergiesDirectEntry(t *testing.T) {
	seed := map[string]string{
		"selectedDiets":       `["Ketogenic"]`,
		"prioritizedConcerns": `["Stress"]`,
		"selectedAllergies":   `["Nasonex"]`,
	}

	through := newHarness(t, harnessOpts{start: StepAllergies, layout: session.LayoutKeys, seed: seed})
	st := through.flow.State()
	require.Equal(t, []string{"Nasonex"}, st.SelectedAllergies)
	require.Equal(t, []string{"Ketogenic"}, st.SelectedDiets)
	require.Equal(t, []string{"Stress"}, st.PrioritizedConcerns)

	deferred := newHarness(t, harnessOpts{start: StepAllergies, layout: session.LayoutKeys, policy: Deferred, seed: seed})
	st = deferred.flow.State()
	require.Equal(t, []string{"Nasonex"}, st.SelectedAllergies)
	require.Empty(t, st.SelectedDiets)
	require.Empty(t, st.PrioritizedConcerns)
}

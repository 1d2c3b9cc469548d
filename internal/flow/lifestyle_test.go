package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/jask/vitaflow/internal/session"
)

func atLifestyle(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	h := atAllergies(t, o)
	require.True(t, h.flow.Allergies().SelectSuggestion(context.Background(), "Milk"))
	require.NoError(t, h.flow.Allergies().Proceed(context.Background()))
	require.Equal(t, StepLifestyle, h.flow.Current())
	return h
}

func TestLifestyleSubmitRequiresEveryAnswer(t *testing.T) {
	for _, policy := range []Policy{WriteThrough, Deferred} {
		t.Run(string(policy), func(t *testing.T) {
			h := atLifestyle(t, harnessOpts{policy: policy, layout: session.LayoutKeys})
			l := h.flow.Lifestyle()
			ctx := context.Background()
			require.NoError(t, l.SetSunExposure(ctx, session.Yes))

			writes := h.store.writes
			err := l.Submit(ctx)
			var errs session.ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.Equal(t, []session.Field{session.FieldSmoking, session.FieldAlcoholConsumption}, errs.Fields())
			for _, e := range errs {
				require.Equal(t, session.MsgRequired, e.Message)
			}
			require.Equal(t, writes, h.store.writes)
			require.False(t, h.flow.Completed())
			require.Equal(t, PhaseBlocked, h.flow.Phase(StepLifestyle))
			require.Equal(t, StepLifestyle, h.flow.Current())
		})
	}
}

func TestLifestyleAnswerPersistencePolicy(t *testing.T) {
	ctx := context.Background()

	through := atLifestyle(t, harnessOpts{layout: session.LayoutKeys})
	require.NoError(t, through.flow.Lifestyle().SetSmoking(ctx, session.No))
	require.Equal(t, "No", through.store.entries()["smoking"])

	deferred := atLifestyle(t, harnessOpts{policy: Deferred, layout: session.LayoutKeys})
	require.NoError(t, deferred.flow.Lifestyle().SetSmoking(ctx, session.No))
	require.NotContains(t, deferred.store.entries(), "smoking")
}

func TestLifestyleRejectsUnsetAnswers(t *testing.T) {
	h := atLifestyle(t, harnessOpts{})
	l := h.flow.Lifestyle()
	ctx := context.Background()

	require.NoError(t, l.SetSunExposure(ctx, session.No))
	require.ErrorIs(t, l.SetSunExposure(ctx, ""), session.ErrUnsetAnswer)
	require.ErrorIs(t, l.SetAlcoholConsumption(ctx, ""), session.ErrUnsetAnswer)
	require.Error(t, l.SetSmoking(ctx, "Maybe"))
	require.Error(t, l.SetAlcoholConsumption(ctx, "12"))
	require.Equal(t, session.No, l.Answers().SunExposure)

	require.NoError(t, l.SetSunExposure(ctx, session.Yes))
	require.Equal(t, session.Yes, l.Answers().SunExposure)
}

func TestLifestyleAnswerParses(t *testing.T) {
	h := atLifestyle(t, harnessOpts{})
	l := h.flow.Lifestyle()
	ctx := context.Background()

	require.NoError(t, l.Answer(ctx, session.FieldSunExposure, "yes"))
	require.NoError(t, l.Answer(ctx, session.FieldSmoking, "n"))
	require.NoError(t, l.Answer(ctx, session.FieldAlcoholConsumption, "2-5"))
	require.Equal(t, session.LifestyleAnswers{
		SunExposure:        session.Yes,
		Smoking:            session.No,
		AlcoholConsumption: session.AlcoholModerate,
	}, l.Answers())

	require.ErrorIs(t, l.Answer(ctx, session.FieldSmoking, ""), session.ErrUnsetAnswer)
	require.Error(t, l.Answer(ctx, session.FieldDiets, "Vegan"))
}

func TestLifestyleSubmitPersistsSession(t *testing.T) {
	h := atLifestyle(t, harnessOpts{policy: Deferred})
	l := h.flow.Lifestyle()
	ctx := context.Background()
	require.NoError(t, l.SetSunExposure(ctx, session.Yes))
	require.NoError(t, l.SetSmoking(ctx, session.No))
	require.NoError(t, l.SetAlcoholConsumption(ctx, session.AlcoholHigh))

	require.NoError(t, l.Submit(ctx))
	require.True(t, h.flow.Completed())
	require.Equal(t, PhaseSubmitted, h.flow.Phase(StepLifestyle))
	require.Equal(t, StepLifestyle, h.flow.Current())
	require.Equal(t, 1, h.rec.completed)

	st, found, err := h.repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, st.Completed)
	require.Equal(t, h.flow.State().ID, st.ID)
	require.Equal(t, []string{"Sleep", "Energy"}, st.PrioritizedConcerns)
	require.Equal(t, []string{"Vegan"}, st.SelectedDiets)
	require.Equal(t, []string{"Milk"}, st.SelectedAllergies)
	require.Equal(t, session.AlcoholHigh, st.Lifestyle.AlcoholConsumption)

	logged := h.logs.FilterMessage("questionnaire submitted").All()
	require.Len(t, logged, 1)
	require.Equal(t, zapcore.InfoLevel, logged[0].Level)
	require.Equal(t, "5+", logged[0].ContextMap()["alcohol_consumption"])
}

func TestLifestyleSubmitKeysLayoutWritesAllKeys(t *testing.T) {
	h := atLifestyle(t, harnessOpts{policy: Deferred, layout: session.LayoutKeys})
	l := h.flow.Lifestyle()
	ctx := context.Background()
	require.NoError(t, l.SetSunExposure(ctx, session.No))
	require.NoError(t, l.SetSmoking(ctx, session.Yes))
	require.NoError(t, l.SetAlcoholConsumption(ctx, session.AlcoholLow))
	require.NoError(t, l.Submit(ctx))

	require.Equal(t, map[string]string{
		"prioritizedConcerns": `["Sleep","Energy"]`,
		"selectedDiets":       `["Vegan"]`,
		"selectedAllergies":   `["Milk"]`,
		"sunExposure":         "No",
		"smoking":             "Yes",
		"alcoholConsumption":  "0 - 1",
	}, h.store.entries())
}

func TestLifestyleMountLoadsAnswers(t *testing.T) {
	h := newHarness(t, harnessOpts{
		start:  StepLifestyle,
		layout: session.LayoutKeys,
		seed:   map[string]string{"sunExposure": "Yes", "alcoholConsumption": "2 - 5"},
	})
	a := h.flow.Lifestyle().Answers()
	require.Equal(t, session.Yes, a.SunExposure)
	require.False(t, a.Smoking.Set())
	require.Equal(t, session.AlcoholModerate, a.AlcoholConsumption)
}

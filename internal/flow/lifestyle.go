package flow

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jask/vitaflow/internal/session"
)

// Lifestyle controls the last step. Submit is terminal: it persists the whole
// session and does not navigate.
type Lifestyle struct {
	f *Flow
}

func (l *Lifestyle) mount(ctx context.Context, p Params) {
	if st, _, ok := l.f.load(ctx, StepLifestyle, session.LifestyleFields...); ok {
		l.f.state.Lifestyle = st.Lifestyle
	}
	l.f.adoptUpstream(ctx, StepLifestyle, p, session.FieldDiets, session.FieldConcerns, session.FieldAllergies)
}

// Answers returns the current answers.
func (l *Lifestyle) Answers() session.LifestyleAnswers { return l.f.state.Lifestyle }

func (l *Lifestyle) SetSunExposure(ctx context.Context, v session.YesNo) error {
	if err := checkYesNo(v); err != nil {
		return err
	}
	l.f.state.Lifestyle.SunExposure = v
	l.answered(ctx, session.FieldSunExposure)
	return nil
}

func (l *Lifestyle) SetSmoking(ctx context.Context, v session.YesNo) error {
	if err := checkYesNo(v); err != nil {
		return err
	}
	l.f.state.Lifestyle.Smoking = v
	l.answered(ctx, session.FieldSmoking)
	return nil
}

func (l *Lifestyle) SetAlcoholConsumption(ctx context.Context, v session.AlcoholIntake) error {
	if !v.Set() {
		return session.ErrUnsetAnswer
	}
	if !slices.Contains(session.AlcoholIntakes, v) {
		return fmt.Errorf("flow: invalid alcohol consumption answer %q", v)
	}
	l.f.state.Lifestyle.AlcoholConsumption = v
	l.answered(ctx, session.FieldAlcoholConsumption)
	return nil
}

// Answer parses raw for field and sets it.
func (l *Lifestyle) Answer(ctx context.Context, field session.Field, raw string) error {
	switch field {
	case session.FieldSunExposure, session.FieldSmoking:
		v, err := session.ParseYesNo(raw)
		if err != nil {
			return err
		}
		if field == session.FieldSmoking {
			return l.SetSmoking(ctx, v)
		}
		return l.SetSunExposure(ctx, v)
	case session.FieldAlcoholConsumption:
		v, err := session.ParseAlcoholIntake(raw)
		if err != nil {
			return err
		}
		return l.SetAlcoholConsumption(ctx, v)
	}
	return fmt.Errorf("flow: %q is not a lifestyle question", field)
}

// Submit validates that every question is answered, then persists the full
// session and marks it completed. On failure nothing is written and the
// returned session.ValidationErrors names each unanswered field.
func (l *Lifestyle) Submit(ctx context.Context) error {
	if missing := l.f.state.Lifestyle.Missing(); len(missing) > 0 {
		errs := make(session.ValidationErrors, 0, len(missing))
		for _, field := range missing {
			errs = append(errs, &session.ValidationError{Field: field, Message: session.MsgRequired})
		}
		l.f.block(StepLifestyle, errs...)
		return errs
	}
	l.f.state.Completed = true
	l.f.persist(ctx, StepLifestyle, session.AllFields...)
	l.f.phases[StepLifestyle] = PhaseSubmitted
	l.f.metrics.Completed()

	st := l.f.state
	l.f.logger.Info("questionnaire submitted",
		zap.String("session", st.ID),
		zap.Strings("prioritized_concerns", st.PrioritizedConcerns),
		zap.Strings("selected_diets", st.SelectedDiets),
		zap.Strings("selected_allergies", st.SelectedAllergies),
		zap.String("sun_exposure", string(st.Lifestyle.SunExposure)),
		zap.String("smoking", string(st.Lifestyle.Smoking)),
		zap.String("alcohol_consumption", string(st.Lifestyle.AlcoholConsumption)),
	)
	return nil
}

func (l *Lifestyle) Back(ctx context.Context) { l.f.Back(ctx) }

func (l *Lifestyle) answered(ctx context.Context, field session.Field) {
	l.f.edited(StepLifestyle)
	if l.f.policy == WriteThrough {
		l.f.persist(ctx, StepLifestyle, field)
	}
}

func checkYesNo(v session.YesNo) error {
	switch v {
	case session.Yes, session.No:
		return nil
	case "":
		return session.ErrUnsetAnswer
	}
	return fmt.Errorf("flow: invalid yes/no answer %q", v)
}

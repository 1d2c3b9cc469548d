// Package testdata generates sample questionnaire sessions for demos and the
// seed command.
package testdata

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jask/vitaflow/internal/session"
)

// Generate returns a completed session with random picks from each catalog.
// Concerns are capped at session.MaxConcerns and at least one concern and one
// diet are always chosen.
func Generate(r *rand.Rand) session.State {
	now := time.Now().UTC()
	st := session.State{
		ID:        uuid.NewString(),
		StartedAt: now.Add(-time.Duration(1+r.IntN(30)) * time.Minute),
		UpdatedAt: now,
		Completed: true,
	}

	concerns := session.Concerns()
	r.Shuffle(len(concerns), func(i, j int) { concerns[i], concerns[j] = concerns[j], concerns[i] })
	for _, c := range concerns[:1+r.IntN(session.MaxConcerns)] {
		st.PrioritizedConcerns = append(st.PrioritizedConcerns, c.Name)
	}

	diets := session.Diets()
	for _, d := range diets {
		if r.IntN(3) == 0 {
			st.SelectedDiets = append(st.SelectedDiets, d.Name)
		}
	}
	if len(st.SelectedDiets) == 0 {
		st.SelectedDiets = []string{diets[r.IntN(len(diets))].Name}
	}

	st.SelectedAllergies = []string{}
	for _, a := range session.Allergens() {
		if r.IntN(4) == 0 {
			st.SelectedAllergies = append(st.SelectedAllergies, a.Name)
		}
	}

	st.Lifestyle = session.LifestyleAnswers{
		SunExposure:        yesNo(r),
		Smoking:            yesNo(r),
		AlcoholConsumption: session.AlcoholIntakes[r.IntN(len(session.AlcoholIntakes))],
	}
	return st
}

func yesNo(r *rand.Rand) session.YesNo {
	if r.IntN(2) == 0 {
		return session.No
	}
	return session.Yes
}

// Seed writes a generated session to repo and returns it. A nil r seeds from
// the clock.
func Seed(ctx context.Context, repo *session.Repository, r *rand.Rand) (session.State, error) {
	if r == nil {
		seed := uint64(time.Now().UnixNano())
		r = rand.New(rand.NewPCG(seed, seed>>1))
	}
	st := Generate(r)
	if err := repo.Save(ctx, st); err != nil {
		return session.State{}, err
	}
	return st, nil
}

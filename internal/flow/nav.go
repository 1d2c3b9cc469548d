package flow

import (
	"slices"

	"github.com/jask/vitaflow/internal/session"
)

// StepID names one screen of the questionnaire.
type StepID string

const (
	StepHome      StepID = "home"
	StepConcerns  StepID = "concerns"
	StepDiet      StepID = "diet"
	StepAllergies StepID = "allergies"
	StepLifestyle StepID = "lifestyle"
)

// Steps is the linear order of the flow.
var Steps = []StepID{StepHome, StepConcerns, StepDiet, StepAllergies, StepLifestyle}

// ParseStep maps a name to a StepID.
func ParseStep(s string) (StepID, bool) {
	id := StepID(s)
	return id, slices.Contains(Steps, id)
}

// Next returns the step after id; ok is false for the last step.
func Next(id StepID) (StepID, bool) {
	i := slices.Index(Steps, id)
	if i < 0 || i == len(Steps)-1 {
		return "", false
	}
	return Steps[i+1], true
}

// Previous returns the step before id; ok is false for the first step.
func Previous(id StepID) (StepID, bool) {
	i := slices.Index(Steps, id)
	if i <= 0 {
		return "", false
	}
	return Steps[i-1], true
}

// Params is the bag handed to the destination step on navigation. A nil
// slice means the value was not passed at all; an empty slice means it was
// passed and is empty.
type Params struct {
	PrioritizedConcerns []string
	SelectedDiets       []string
	SelectedAllergies   []string
}

// Encode renders the passed values in their wire form: each list as a JSON
// array string keyed by its storage field name.
func (p Params) Encode() (map[string]string, error) {
	out := map[string]string{}
	for field, v := range map[session.Field][]string{
		session.FieldConcerns:  p.PrioritizedConcerns,
		session.FieldDiets:     p.SelectedDiets,
		session.FieldAllergies: p.SelectedAllergies,
	} {
		if v == nil {
			continue
		}
		enc, err := session.EncodeList(v)
		if err != nil {
			return nil, err
		}
		out[string(field)] = enc
	}
	return out, nil
}

func (p Params) clone() Params {
	return Params{
		PrioritizedConcerns: slices.Clone(p.PrioritizedConcerns),
		SelectedDiets:       slices.Clone(p.SelectedDiets),
		SelectedAllergies:   slices.Clone(p.SelectedAllergies),
	}
}

// passed returns a non-nil copy of s, marking the value as present in Params.
func passed(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

type visit struct {
	step   StepID
	params Params
}

// Sequencer tracks the active step, its params and the visit history.
type Sequencer struct {
	current visit
	history []visit
}

func NewSequencer(start StepID) *Sequencer {
	return &Sequencer{current: visit{step: start}}
}

// Current returns the active step.
func (s *Sequencer) Current() StepID { return s.current.step }

// Params returns a copy of the params the active step was entered with.
func (s *Sequencer) Params() Params { return s.current.params.clone() }

// Depth is the number of visits that Back can return to.
func (s *Sequencer) Depth() int { return len(s.history) }

// Navigate pushes the active step and moves to `to`.
func (s *Sequencer) Navigate(to StepID, params Params) {
	s.history = append(s.history, s.current)
	s.current = visit{step: to, params: params.clone()}
}

// Back returns to the previous visit. With no history it moves to the linear
// predecessor without params, and stays put on the first step.
func (s *Sequencer) Back() StepID {
	if n := len(s.history); n > 0 {
		s.current = s.history[n-1]
		s.history = s.history[:n-1]
		return s.current.step
	}
	if prev, ok := Previous(s.current.step); ok {
		s.current = visit{step: prev}
	}
	return s.current.step
}

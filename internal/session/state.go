// Package session holds the questionnaire's accumulated answers (State), the
// fixed catalogs they draw from, and the Repository that serializes State
// into a kv.Store.
package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Field names one persisted slice of State. The values double as the keys of
// the per-field storage layout.
type Field string

const (
	FieldConcerns           Field = "prioritizedConcerns"
	FieldDiets              Field = "selectedDiets"
	FieldAllergies          Field = "selectedAllergies"
	FieldSunExposure        Field = "sunExposure"
	FieldSmoking            Field = "smoking"
	FieldAlcoholConsumption Field = "alcoholConsumption"
)

// AllFields lists every field in flow order.
var AllFields = []Field{
	FieldConcerns, FieldDiets, FieldAllergies,
	FieldSunExposure, FieldSmoking, FieldAlcoholConsumption,
}

// LifestyleFields are the three questions on the last step.
var LifestyleFields = []Field{FieldSunExposure, FieldSmoking, FieldAlcoholConsumption}

// State is everything the user has answered so far.
type State struct {
	ID                  string
	PrioritizedConcerns []string
	SelectedDiets       []string
	SelectedAllergies   []string
	Lifestyle           LifestyleAnswers
	Completed           bool
	StartedAt           time.Time
	UpdatedAt           time.Time
}

// New returns an empty state with a fresh ID.
func New() State {
	now := time.Now().UTC()
	return State{ID: uuid.NewString(), StartedAt: now, UpdatedAt: now}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.PrioritizedConcerns = slices.Clone(s.PrioritizedConcerns)
	out.SelectedDiets = slices.Clone(s.SelectedDiets)
	out.SelectedAllergies = slices.Clone(s.SelectedAllergies)
	return out
}

// Empty reports whether nothing has been answered.
func (s State) Empty() bool {
	return len(s.PrioritizedConcerns) == 0 &&
		len(s.SelectedDiets) == 0 &&
		len(s.SelectedAllergies) == 0 &&
		s.Lifestyle == (LifestyleAnswers{})
}

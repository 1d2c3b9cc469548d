package flow

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/vitaflow/internal/session"
)

// Allergies controls the allergy step.
type Allergies struct {
	f     *Flow
	query string
}

func (a *Allergies) mount(ctx context.Context, p Params) {
	a.query = ""
	if st, _, ok := a.f.load(ctx, StepAllergies, session.FieldAllergies); ok {
		a.f.state.SelectedAllergies = st.SelectedAllergies
	}
	a.f.adoptUpstream(ctx, StepAllergies, p, session.FieldDiets, session.FieldConcerns)
}

// Query returns the current search text.
func (a *Allergies) Query() string { return a.query }

// Selected returns the selected allergies.
func (a *Allergies) Selected() []string { return slices.Clone(a.f.state.SelectedAllergies) }

// Search sets the query and returns the matching suggestions.
func (a *Allergies) Search(query string) []string {
	a.query = query
	return a.Suggestions()
}

// Suggestions lists unselected catalog entries whose name contains the query,
// ignoring case. An empty query has no suggestions.
func (a *Allergies) Suggestions() []string {
	q := strings.ToLower(strings.TrimSpace(a.query))
	if q == "" {
		return nil
	}
	var out []string
	for _, al := range session.Allergens() {
		if a.isSelected(al.Name) {
			continue
		}
		if strings.Contains(strings.ToLower(al.Name), q) {
			out = append(out, al.Name)
		}
	}
	return out
}

// Nearest returns the unselected catalog entry closest to query by edit
// distance, if any is close enough to be a likely typo.
func (a *Allergies) Nearest(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	limit := utf8.RuneCountInString(q)/3 + 1
	best, bestDist := "", limit+1
	for _, al := range session.Allergens() {
		if a.isSelected(al.Name) {
			continue
		}
		if d := levenshtein.ComputeDistance(q, strings.ToLower(al.Name)); d < bestDist {
			best, bestDist = al.Name, d
		}
	}
	return best, best != ""
}

// SelectSuggestion adds a catalog allergen, persists and clears the query.
func (a *Allergies) SelectSuggestion(ctx context.Context, name string) bool {
	al, ok := session.AllergenByName(name)
	if !ok || a.isSelected(al.Name) {
		return false
	}
	a.f.state.SelectedAllergies = append(slices.Clone(a.f.state.SelectedAllergies), al.Name)
	a.query = ""
	a.f.edited(StepAllergies)
	a.f.persist(ctx, StepAllergies, session.FieldAllergies)
	return true
}

// Remove drops name from the selection. Removing an absent name does nothing.
func (a *Allergies) Remove(ctx context.Context, name string) bool {
	cur := a.f.state.SelectedAllergies
	i := slices.Index(cur, name)
	if i < 0 {
		return false
	}
	a.f.state.SelectedAllergies = slices.Delete(slices.Clone(cur), i, i+1)
	a.f.edited(StepAllergies)
	a.f.persist(ctx, StepAllergies, session.FieldAllergies)
	return true
}

// Proceed persists the upstream answers and forwards everything to the
// lifestyle step. An empty allergy list is allowed.
func (a *Allergies) Proceed(ctx context.Context) error {
	a.f.persist(ctx, StepAllergies, session.FieldDiets, session.FieldConcerns)
	a.f.forward(ctx, StepAllergies, StepLifestyle, Params{
		SelectedDiets:       passed(a.f.state.SelectedDiets),
		PrioritizedConcerns: passed(a.f.state.PrioritizedConcerns),
		SelectedAllergies:   passed(a.f.state.SelectedAllergies),
	})
	return nil
}

func (a *Allergies) Back(ctx context.Context) { a.f.Back(ctx) }

func (a *Allergies) isSelected(name string) bool {
	return slices.ContainsFunc(a.f.state.SelectedAllergies, func(s string) bool {
		return strings.EqualFold(s, name)
	})
}

// adoptUpstream takes the given list fields from params. Fields not passed
// keep their in-memory value; under WriteThrough an empty one is then read
// back from the store.
func (f *Flow) adoptUpstream(ctx context.Context, step StepID, p Params, fields ...session.Field) {
	var missing []session.Field
	for _, field := range fields {
		if v := paramList(p, field); v != nil {
			*stateList(&f.state, field) = slices.Clone(v)
			continue
		}
		if len(*stateList(&f.state, field)) == 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 || f.policy != WriteThrough {
		return
	}
	st, _, ok := f.load(ctx, step, missing...)
	if !ok {
		return
	}
	for _, field := range missing {
		*stateList(&f.state, field) = *stateList(&st, field)
	}
}

func paramList(p Params, field session.Field) []string {
	switch field {
	case session.FieldConcerns:
		return p.PrioritizedConcerns
	case session.FieldDiets:
		return p.SelectedDiets
	case session.FieldAllergies:
		return p.SelectedAllergies
	}
	return nil
}

func stateList(st *session.State, field session.Field) *[]string {
	switch field {
	case session.FieldConcerns:
		return &st.PrioritizedConcerns
	case session.FieldDiets:
		return &st.SelectedDiets
	case session.FieldAllergies:
		return &st.SelectedAllergies
	}
	panic("flow: not a list field: " + string(field))
}

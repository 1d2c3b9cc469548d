package flow

import (
	"context"
	"slices"

	"github.com/jask/vitaflow/internal/session"
)

// Diet controls the diet step.
type Diet struct {
	f    *Flow
	info *session.DietOption
}

func (d *Diet) mount(ctx context.Context) {
	d.info = nil
	st, _, ok := d.f.load(ctx, StepDiet, session.FieldDiets, session.FieldConcerns)
	if !ok {
		return
	}
	d.f.state.SelectedDiets = knownDiets(st.SelectedDiets)
	d.f.state.PrioritizedConcerns = st.PrioritizedConcerns
}

// knownDiets drops stored names that are no longer in the catalog; the screen
// could not show or deselect them.
func knownDiets(names []string) []string {
	return slices.DeleteFunc(slices.Clone(names), func(n string) bool {
		_, ok := session.DietByName(n)
		return !ok
	})
}

// Catalog returns the selectable diets.
func (d *Diet) Catalog() []session.DietOption { return session.Diets() }

// Selected returns the selected diet names.
func (d *Diet) Selected() []string { return slices.Clone(d.f.state.SelectedDiets) }

func (d *Diet) IsSelected(id int) bool {
	opt, ok := session.DietByID(id)
	return ok && slices.Contains(d.f.state.SelectedDiets, opt.Name)
}

// Toggle flips the catalog entry with id. It reports false for unknown ids.
func (d *Diet) Toggle(ctx context.Context, id int) bool {
	opt, ok := session.DietByID(id)
	if !ok {
		return false
	}
	cur := d.f.state.SelectedDiets
	if i := slices.Index(cur, opt.Name); i >= 0 {
		d.f.state.SelectedDiets = slices.Delete(slices.Clone(cur), i, i+1)
	} else {
		d.f.state.SelectedDiets = append(slices.Clone(cur), opt.Name)
	}
	d.f.edited(StepDiet)
	if d.f.policy == WriteThrough {
		d.f.persist(ctx, StepDiet, session.FieldDiets)
	}
	return true
}

// ShowInfo opens the description of diet id.
func (d *Diet) ShowInfo(id int) bool {
	opt, ok := session.DietByID(id)
	if !ok {
		return false
	}
	d.info = &opt
	return true
}

func (d *Diet) HideInfo() { d.info = nil }

// Info returns the diet whose description is open.
func (d *Diet) Info() (session.DietOption, bool) {
	if d.info == nil {
		return session.DietOption{}, false
	}
	return *d.info, true
}

// Proceed persists the diets and concerns and forwards both to the allergies step.
func (d *Diet) Proceed(ctx context.Context) error {
	if len(d.f.state.SelectedDiets) == 0 {
		verr := &session.ValidationError{Field: session.FieldDiets, Message: session.MsgNoDiet}
		d.f.block(StepDiet, verr)
		return verr
	}
	d.info = nil
	d.f.persist(ctx, StepDiet, session.FieldDiets, session.FieldConcerns)
	d.f.forward(ctx, StepDiet, StepAllergies, Params{
		SelectedDiets:       passed(d.f.state.SelectedDiets),
		PrioritizedConcerns: passed(d.f.state.PrioritizedConcerns),
	})
	return nil
}

func (d *Diet) Back(ctx context.Context) {
	d.info = nil
	d.f.Back(ctx)
}

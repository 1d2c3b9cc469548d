package flow

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jask/vitaflow/internal/session"
)

// ErrNotPermutation is returned by Reorder when the new order is not a
// rearrangement of the current selection.
var ErrNotPermutation = errors.New("flow: order is not a permutation of the selection")

// Concerns controls the health concern step.
type Concerns struct {
	f *Flow
}

func (c *Concerns) mount(ctx context.Context) {
	st, _, ok := c.f.load(ctx, StepConcerns, session.FieldConcerns)
	if !ok {
		return
	}
	c.f.state.PrioritizedConcerns = st.PrioritizedConcerns
}

// Catalog returns the selectable concerns.
func (c *Concerns) Catalog() []session.Concern { return session.Concerns() }

// Selected returns the priority order.
func (c *Concerns) Selected() []string { return slices.Clone(c.f.state.PrioritizedConcerns) }

func (c *Concerns) IsSelected(name string) bool {
	return slices.Contains(c.f.state.PrioritizedConcerns, name)
}

// Full reports whether the selection is at its cap.
func (c *Concerns) Full() bool { return len(c.f.state.PrioritizedConcerns) >= session.MaxConcerns }

// Toggle removes name when selected, else appends it while under the cap.
// It reports whether the selection changed.
func (c *Concerns) Toggle(ctx context.Context, name string) bool {
	if !session.IsConcern(name) {
		return false
	}
	cur := c.f.state.PrioritizedConcerns
	var next []string
	if i := slices.Index(cur, name); i >= 0 {
		next = slices.Delete(slices.Clone(cur), i, i+1)
	} else if len(cur) < session.MaxConcerns {
		next = append(slices.Clone(cur), name)
	} else {
		return false
	}
	c.f.state.PrioritizedConcerns = next
	c.f.edited(StepConcerns)
	c.f.persist(ctx, StepConcerns, session.FieldConcerns)
	return true
}

// Reorder replaces the priority order with order. order must be a
// rearrangement of the current selection: no additions, drops or duplicates.
// Anything else returns ErrNotPermutation and leaves the selection unchanged.
func (c *Concerns) Reorder(ctx context.Context, order []string) error {
	if !isPermutation(c.f.state.PrioritizedConcerns, order) {
		return ErrNotPermutation
	}
	c.f.state.PrioritizedConcerns = slices.Clone(order)
	c.f.edited(StepConcerns)
	c.f.persist(ctx, StepConcerns, session.FieldConcerns)
	return nil
}

// Move shifts the concern at index from to index to.
func (c *Concerns) Move(ctx context.Context, from, to int) error {
	cur := c.f.state.PrioritizedConcerns
	if from < 0 || from >= len(cur) || to < 0 || to >= len(cur) {
		return fmt.Errorf("flow: move %d -> %d out of range for %d concerns", from, to, len(cur))
	}
	if from == to {
		return nil
	}
	name := cur[from]
	order := slices.Delete(slices.Clone(cur), from, from+1)
	order = slices.Insert(order, to, name)
	return c.Reorder(ctx, order)
}

// Proceed forwards the priority order to the diet step.
func (c *Concerns) Proceed(ctx context.Context) error {
	if len(c.f.state.PrioritizedConcerns) == 0 {
		verr := &session.ValidationError{Field: session.FieldConcerns, Message: session.MsgNoConcern}
		c.f.block(StepConcerns, verr)
		return verr
	}
	c.f.forward(ctx, StepConcerns, StepDiet, Params{
		PrioritizedConcerns: passed(c.f.state.PrioritizedConcerns),
	})
	return nil
}

func (c *Concerns) Back(ctx context.Context) { c.f.Back(ctx) }

func isPermutation(cur, order []string) bool {
	if len(cur) != len(order) {
		return false
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] || !slices.Contains(cur, name) {
			return false
		}
		seen[name] = true
	}
	return true
}

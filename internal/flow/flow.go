// Package flow runs the onboarding questionnaire: one controller per step,
// a shared session.State passed between them by reference, and a Sequencer
// for linear navigation.
//
// Navigating to a step mounts it: the step loads its slice of answers from the
// repository (and, where applicable, from the navigation params) before the
// caller sees it. Storage failures are logged and swallowed; they never change
// in-memory state and never block the user.
package flow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/vitaflow/internal/session"
)

// Policy controls when the Diet and Lifestyle steps write their answers.
type Policy string

const (
	// WriteThrough persists every mutation on every step, and lets steps
	// entered without params recover upstream answers from the store.
	WriteThrough Policy = "write-through"
	// Deferred writes less often: Diet writes on proceed, Lifestyle on
	// submit, and Allergies/Lifestyle take upstream answers from params only.
	Deferred Policy = "deferred"
)

// ParsePolicy maps a config value to a Policy. Empty means WriteThrough.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", WriteThrough:
		return WriteThrough, nil
	case Deferred:
		return Deferred, nil
	}
	return "", fmt.Errorf("flow: unknown persistence policy %q", s)
}

// Phase is where a step is in its lifecycle.
type Phase string

const (
	PhaseUnvisited Phase = "unvisited"
	PhaseLoaded    Phase = "loaded"
	PhaseEditing   Phase = "editing"
	PhaseBlocked   Phase = "blocked"
	PhaseForwarded Phase = "forwarded"
	PhaseSubmitted Phase = "submitted"
)

// Recorder receives flow events. *metrics.Recorder satisfies it.
type Recorder interface {
	Transition(from, to string)
	ValidationFailed(step, field string)
	Completed()
}

type nopRecorder struct{}

func (nopRecorder) Transition(string, string)       {}
func (nopRecorder) ValidationFailed(string, string) {}
func (nopRecorder) Completed()                      {}

// Options configures a Flow.
type Options struct {
	Policy  Policy
	Logger  *zap.Logger
	Metrics Recorder
	// Start is the first step mounted by Start. Defaults to StepHome, which
	// clears the store.
	Start StepID
}

// Flow owns the session state and the step controllers.
type Flow struct {
	state   session.State
	repo    *session.Repository
	nav     *Sequencer
	policy  Policy
	logger  *zap.Logger
	metrics Recorder
	phases  map[StepID]Phase

	home      *Home
	concerns  *Concerns
	diet      *Diet
	allergies *Allergies
	lifestyle *Lifestyle
}

func New(repo *session.Repository, opts Options) *Flow {
	if opts.Policy == "" {
		opts.Policy = WriteThrough
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	if _, ok := ParseStep(string(opts.Start)); !ok {
		opts.Start = StepHome
	}
	f := &Flow{
		state:   session.New(),
		repo:    repo,
		nav:     NewSequencer(opts.Start),
		policy:  opts.Policy,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		phases:  map[StepID]Phase{},
	}
	f.home = &Home{f: f}
	f.concerns = &Concerns{f: f}
	f.diet = &Diet{f: f}
	f.allergies = &Allergies{f: f}
	f.lifestyle = &Lifestyle{f: f}
	return f
}

// Start mounts the configured first step.
func (f *Flow) Start(ctx context.Context) {
	f.mount(ctx, f.nav.Current())
}

func (f *Flow) Home() *Home           { return f.home }
func (f *Flow) Concerns() *Concerns   { return f.concerns }
func (f *Flow) Diet() *Diet           { return f.diet }
func (f *Flow) Allergies() *Allergies { return f.allergies }
func (f *Flow) Lifestyle() *Lifestyle { return f.lifestyle }

// Current returns the active step.
func (f *Flow) Current() StepID { return f.nav.Current() }

// Params returns the params the active step was entered with.
func (f *Flow) Params() Params { return f.nav.Params() }

// Policy returns the configured persistence policy.
func (f *Flow) Policy() Policy { return f.policy }

// State returns a copy of the accumulated answers.
func (f *Flow) State() session.State { return f.state.Clone() }

// Phase returns the lifecycle phase of step.
func (f *Flow) Phase(step StepID) Phase {
	if p, ok := f.phases[step]; ok {
		return p
	}
	return PhaseUnvisited
}

// Completed reports whether the final submit succeeded.
func (f *Flow) Completed() bool { return f.state.Completed }

// Back leaves the active step without changing any answers.
func (f *Flow) Back(ctx context.Context) {
	from := f.nav.Current()
	to := f.nav.Back()
	if to == from {
		return
	}
	f.transition(from, to)
	f.mount(ctx, to)
}

// Restart drops the history and returns to the home step, which clears the store.
func (f *Flow) Restart(ctx context.Context) {
	from := f.nav.Current()
	f.nav = NewSequencer(StepHome)
	f.transition(from, StepHome)
	f.mount(ctx, StepHome)
}

func (f *Flow) mount(ctx context.Context, step StepID) {
	params := f.nav.Params()
	switch step {
	case StepHome:
		f.home.mount(ctx)
	case StepConcerns:
		f.concerns.mount(ctx)
	case StepDiet:
		f.diet.mount(ctx)
	case StepAllergies:
		f.allergies.mount(ctx, params)
	case StepLifestyle:
		f.lifestyle.mount(ctx, params)
	}
	f.phases[step] = PhaseLoaded
}

func (f *Flow) forward(ctx context.Context, from, to StepID, params Params) {
	f.phases[from] = PhaseForwarded
	f.nav.Navigate(to, params)
	f.transition(from, to)
	f.mount(ctx, to)
}

func (f *Flow) transition(from, to StepID) {
	f.metrics.Transition(string(from), string(to))
	f.logger.Debug("step transition", zap.String("from", string(from)), zap.String("to", string(to)))
}

func (f *Flow) edited(step StepID) {
	f.phases[step] = PhaseEditing
}

func (f *Flow) block(step StepID, errs ...*session.ValidationError) {
	f.phases[step] = PhaseBlocked
	for _, e := range errs {
		f.metrics.ValidationFailed(string(step), string(e.Field))
	}
	f.logger.Debug("step blocked", zap.String("step", string(step)), zap.Int("errors", len(errs)))
}

// persist writes fields of the current state, logging and swallowing failures.
func (f *Flow) persist(ctx context.Context, step StepID, fields ...session.Field) {
	if err := f.repo.Save(ctx, f.state, fields...); err != nil {
		f.storageFailed(step, err)
	}
}

// load reads fields; ok is false when the read failed (already logged).
func (f *Flow) load(ctx context.Context, step StepID, fields ...session.Field) (session.State, bool, bool) {
	st, found, err := f.repo.Load(ctx, fields...)
	if err != nil {
		f.storageFailed(step, err)
		return session.State{}, false, false
	}
	return st, found, true
}

func (f *Flow) storageFailed(step StepID, err error) {
	fields := []zap.Field{zap.String("step", string(step))}
	var serr *session.StorageError
	if errors.As(err, &serr) {
		fields = append(fields, zap.String("op", serr.Op), zap.String("key", serr.Key), zap.Error(serr.Err))
	} else {
		fields = append(fields, zap.Error(err))
	}
	f.logger.Warn("storage failure", fields...)
}

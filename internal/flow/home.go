package flow

import (
	"context"

	"go.uber.org/zap"

	"github.com/jask/vitaflow/internal/session"
)

// Home is the entry step. Mounting it wipes the store and starts a new session.
type Home struct {
	f *Flow
}

func (h *Home) mount(ctx context.Context) {
	if err := h.f.repo.Reset(ctx); err != nil {
		h.f.storageFailed(StepHome, err)
	}
	h.f.state = session.New()
	h.f.phases = map[StepID]Phase{}
	h.f.logger.Info("session started", zap.String("session", h.f.state.ID))
}

// Start moves on to the concerns step.
func (h *Home) Start(ctx context.Context) {
	h.f.forward(ctx, StepHome, StepConcerns, Params{})
}

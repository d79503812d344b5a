// Package intake runs the submission pipeline: recipient extraction,
// validation, signature field placement, upload to the signing service,
// remote field assignment, and dispatch. Validation and field placement
// gate the run; a failed upload degrades the remaining stages to skips
// rather than stopping the pipeline.
package intake

import (
	"context"
	"log/slog"
	"time"

	"countersign/internal/agents"
	"countersign/internal/pdf"
	"countersign/internal/signing"
	"countersign/internal/tracker"
	"countersign/pkg/pipeline"
	"countersign/pkg/polling"
	"countersign/pkg/storage"
)

// SendMessage accompanies every dispatched document.
const SendMessage = "Please review and sign this document."

// Runtime bundles the systems the intake stages call. Archive may be nil
// when archiving is disabled.
type Runtime struct {
	Logger    *slog.Logger
	Completer agents.Completer
	PDF       pdf.Engine
	Signing   signing.System
	Tracker   tracker.System
	Archive   storage.System
	Poll      polling.Config
	Clock     func() time.Time
}

func (r *Runtime) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// Stages returns the intake pipeline in execution order.
func (r *Runtime) Stages() []pipeline.Stage[State] {
	return []pipeline.Stage[State]{
		{Name: "extract", Run: r.extract},
		{Name: "validate", Run: r.validate, Branch: func(s *State) pipeline.Decision {
			if !s.Validate.Success {
				return pipeline.Abort
			}
			return pipeline.Continue
		}},
		{Name: "add-fields", Run: r.addFields, Branch: func(s *State) pipeline.Decision {
			if !s.AddFields.Success {
				return pipeline.Abort
			}
			return pipeline.Continue
		}},
		{Name: "upload", Run: r.upload},
		{Name: "assign-fields", Run: r.assignFields},
		{Name: "send", Run: r.send},
	}
}

// Run executes one intake run over input and returns the final state
// alongside the executor's outcome.
func (r *Runtime) Run(ctx context.Context, input Input) (*State, pipeline.Outcome) {
	s := &State{Input: input}
	outcome := pipeline.Run(ctx, r.Logger, "intake", r.Stages(), s)
	return s, outcome
}

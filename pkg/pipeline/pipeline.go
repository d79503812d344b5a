// Package pipeline executes a statically-ordered sequence of typed stages
// over a single shared state value. Each stage writes its own slot of the
// state exactly once and reports its outcome as a StageResult; the executor
// alone decides whether the run continues, using each stage's branch
// predicate. Stages never return errors past the executor.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Decision is the closed set of branch outcomes a stage predicate may
// produce. There is deliberately no routing by name: a pipeline either
// proceeds to the next stage in order or stops.
type Decision int

// Branch decisions.
const (
	Continue Decision = iota
	Abort
)

// Status describes how a pipeline run ended.
type Status string

// Run terminal statuses.
const (
	StatusDone      Status = "done"
	StatusAborted   Status = "aborted"
	StatusCancelled Status = "cancelled"
)

// Stage is one named step of a pipeline. Run mutates only the stage's own
// designated fields of the shared state. Branch, when set, is evaluated
// after Run and may stop the pipeline; a nil Branch always continues.
type Stage[S any] struct {
	Name   string
	Run    func(ctx context.Context, s *S)
	Branch func(s *S) Decision
}

// Outcome is the executor's verdict for one run. Stage carries the name of
// the stage at which an aborted or cancelled run stopped; it is empty for
// completed runs. The shared state remains fully inspectable regardless of
// status, including every output recorded before the stop.
type Outcome struct {
	RunID  uuid.UUID
	Status Status
	Stage  string
}

// Run executes stages in order against s. Cancellation is checked between
// stages, never mid-stage: a cancelled run keeps all outputs recorded so
// far and reports StatusCancelled with the name of the first stage that did
// not run.
func Run[S any](ctx context.Context, logger *slog.Logger, name string, stages []Stage[S], s *S) Outcome {
	runID := uuid.New()
	logger = logger.With("pipeline", name, "run_id", runID)
	logger.InfoContext(ctx, "pipeline starting", "stages", len(stages))

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			logger.InfoContext(ctx, "pipeline cancelled", "before_stage", stage.Name)
			return Outcome{RunID: runID, Status: StatusCancelled, Stage: stage.Name}
		}

		started := time.Now()
		stage.Run(ctx, s)
		logger.InfoContext(
			ctx, "stage complete",
			"stage", stage.Name,
			"duration", time.Since(started),
		)

		if stage.Branch != nil && stage.Branch(s) == Abort {
			logger.InfoContext(ctx, "pipeline aborted", "stage", stage.Name)
			return Outcome{RunID: runID, Status: StatusAborted, Stage: stage.Name}
		}
	}

	logger.InfoContext(ctx, "pipeline complete")
	return Outcome{RunID: runID, Status: StatusDone}
}

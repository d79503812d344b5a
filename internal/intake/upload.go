package intake

import (
	"context"
	"fmt"

	"countersign/internal/signing"
	"countersign/pkg/pipeline"
	"countersign/pkg/polling"
)

// upload creates the remote document and waits for it to reach the draft
// state. Failure here does not stop the pipeline: the remaining stages
// observe the missing document and record skips instead.
func (r *Runtime) upload(ctx context.Context, s *State) {
	if !s.AddFields.Success {
		s.Upload = pipeline.Skipped("document was not annotated")
		return
	}

	doc, err := r.Signing.Create(ctx, s.Input.Name, s.Annotated, s.Recipients)
	if err != nil {
		s.Upload = pipeline.FailedRecoverable(fmt.Sprintf("upload failed: %v", err))
		return
	}

	result := polling.Await(ctx, r.Poll,
		func(ctx context.Context) (string, error) {
			return r.Signing.Status(ctx, doc.ID)
		},
		signing.Classify,
	)

	s.RemoteState = result.State
	s.PollAttempts = result.Attempts

	switch result.Outcome {
	case polling.OutcomeReady:
		s.DocumentID = doc.ID
		s.Upload = pipeline.Succeeded()

		r.Logger.InfoContext(ctx, "document ready",
			"document_id", doc.ID,
			"attempts", result.Attempts,
		)
	case polling.OutcomeTimedOut:
		s.Upload = pipeline.FailedRecoverable(
			fmt.Sprintf("document %s not ready after %d attempts", doc.ID, result.Attempts),
		)
	default:
		reason := fmt.Sprintf("document %s entered unexpected state %q", doc.ID, result.State)
		if result.Err != nil {
			reason = fmt.Sprintf("status check for document %s failed: %v", doc.ID, result.Err)
		}
		s.Upload = pipeline.FailedRecoverable(reason)
	}
}

package intake

import (
	"context"
	"fmt"

	"countersign/internal/signing"
	"countersign/pkg/pipeline"
	"countersign/pkg/polling"
)

// send waits for the document to reach draft, dispatches it to its
// recipients, then records it in the tracker and, when archiving is
// enabled, stores the annotated bytes. Tracker and archive failures are
// logged but do not fail the stage: the document is already with its
// recipients at that point.
func (r *Runtime) send(ctx context.Context, s *State) {
	if !s.AssignFields.Success || s.DocumentID == "" {
		s.Send = pipeline.Skipped("signature fields were not assigned")
		return
	}

	result := polling.Await(ctx, r.Poll,
		func(ctx context.Context) (string, error) {
			return r.Signing.Status(ctx, s.DocumentID)
		},
		signing.Classify,
	)
	if result.Outcome != polling.OutcomeReady {
		s.Send = pipeline.FailedRecoverable(notReady("send", s.DocumentID, result))
		return
	}

	if err := r.Signing.Send(ctx, s.DocumentID, SendMessage); err != nil {
		s.Send = pipeline.Failed(fmt.Sprintf("send failed: %v", err))
		return
	}

	s.SentAt = r.now()

	if err := r.Tracker.Add(ctx, s.DocumentID, s.Input.Name, s.Recipients, s.SentAt); err != nil {
		r.Logger.ErrorContext(ctx, "tracking failed",
			"document_id", s.DocumentID,
			"error", err,
		)
	} else {
		s.Tracked = true
	}

	if r.Archive != nil {
		if err := r.Archive.Archive(ctx, s.DocumentID, s.Annotated); err != nil {
			r.Logger.ErrorContext(ctx, "archive failed",
				"document_id", s.DocumentID,
				"error", err,
			)
		} else {
			s.Archived = true
		}
	}

	s.Send = pipeline.Succeeded()
}

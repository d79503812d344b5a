package followup

import (
	"context"
	"fmt"

	"countersign/pkg/pipeline"
)

// persistFollowupState stamps a follow-up on every document that had at
// least one reminder delivered, advancing its last follow-up date and
// count in the tracker.
func (r *Runtime) persistFollowupState(ctx context.Context, s *State) {
	now := r.now()
	failures := 0

	for documentID := range s.Delivered {
		if err := r.Tracker.RecordFollowup(ctx, documentID, now); err != nil {
			failures++
			r.Logger.ErrorContext(ctx, "followup update failed",
				"document_id", documentID,
				"error", err,
			)
			continue
		}

		s.Recorded++
	}

	if failures > 0 {
		s.Persist = pipeline.FailedRecoverable(fmt.Sprintf("%d followup updates failed", failures))
		return
	}

	s.Persist = pipeline.Succeeded()
}

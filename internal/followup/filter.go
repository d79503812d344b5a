package followup

import (
	"context"

	"countersign/internal/signing"
	"countersign/pkg/pipeline"
)

// filter splits checked documents into completions and reminder
// candidates. Completed documents are closed out in the tracker here,
// the moment completion is observed, so an interrupted run never re-sends
// reminders for a finished document.
func (r *Runtime) filter(ctx context.Context, s *State) {
	now := r.now()

	for _, doc := range s.Pending {
		details, ok := s.Details[doc.DocumentID]
		if !ok {
			continue
		}

		if details.Completed() {
			if err := r.Tracker.MarkCompleted(ctx, doc.DocumentID, now); err != nil {
				r.Logger.ErrorContext(ctx, "completion update failed",
					"document_id", doc.DocumentID,
					"error", err,
				)
				continue
			}
			s.Completed = append(s.Completed, doc.DocumentID)
			continue
		}

		var unsigned []signing.RemoteRecipient
		for _, rr := range details.Recipients {
			if !rr.HasCompleted {
				unsigned = append(unsigned, rr)
			}
		}
		if len(unsigned) == 0 {
			continue
		}

		s.Candidates = append(s.Candidates, Candidate{
			Document:    doc,
			DaysPending: doc.DaysPending(now),
			Unsigned:    unsigned,
		})
	}

	s.Filter = pipeline.Succeeded()

	r.Logger.InfoContext(ctx, "documents filtered",
		"completed", len(s.Completed),
		"candidates", len(s.Candidates),
	)
}

package intake

import (
	"context"
	"errors"
	"fmt"

	"countersign/internal/signing"
	"countersign/pkg/pipeline"
	"countersign/pkg/polling"
)

// assignFields waits for the uploaded document to reach draft, then
// attaches one required signature field per recipient on the trailer
// page. The service generates its own recipient identifiers during
// upload, so assignment goes through the details endpoint: each roster
// email resolves to the identifier the service minted for it, and
// recipients the service does not know are skipped with a warning.
func (r *Runtime) assignFields(ctx context.Context, s *State) {
	if !s.Upload.Success || s.DocumentID == "" {
		s.AssignFields = pipeline.Skipped("document was not uploaded")
		return
	}

	var details *signing.Details
	result := polling.Await(ctx, r.Poll,
		func(ctx context.Context) (string, error) {
			d, err := r.Signing.Details(ctx, s.DocumentID)
			if errors.Is(err, signing.ErrProcessing) {
				return signing.StateProcessing, nil
			}
			if err != nil {
				return "", err
			}
			details = d
			return d.Status, nil
		},
		signing.Classify,
	)

	if result.Outcome != polling.OutcomeReady {
		s.AssignFields = pipeline.FailedRecoverable(notReady("field assignment", s.DocumentID, result))
		return
	}

	ids := signing.RecipientIDs(details.Recipients)
	if len(ids) == 0 {
		s.AssignFields = pipeline.FailedRecoverable(
			fmt.Sprintf("document %s has no recipient identifiers", s.DocumentID),
		)
		return
	}

	// The trailer page is the last page of the annotated document;
	// remote field pages are 1-indexed, so the count is the page.
	pages, err := r.PDF.PageCount(s.Annotated)
	if err != nil {
		s.AssignFields = pipeline.FailedRecoverable(fmt.Sprintf("page count failed: %v", err))
		return
	}

	fields, skipped := signing.SignatureFields(pages, s.Recipients, ids)
	for _, email := range skipped {
		r.Logger.WarnContext(ctx, "no remote identifier for recipient, skipping field",
			"document_id", s.DocumentID,
			"email", email,
		)
	}
	s.FieldsSkipped = skipped

	if err := r.Signing.CreateFields(ctx, s.DocumentID, fields); err != nil {
		s.AssignFields = pipeline.FailedRecoverable(fmt.Sprintf("field assignment failed: %v", err))
		return
	}

	s.FieldsAssigned = len(fields)
	s.AssignFields = pipeline.Succeeded()
}

// notReady renders a readiness-wait failure for stage results.
func notReady(op, documentID string, result polling.Result) string {
	switch {
	case result.Err != nil:
		return fmt.Sprintf("%s: status check for document %s failed: %v", op, documentID, result.Err)
	case result.Outcome == polling.OutcomeTimedOut:
		return fmt.Sprintf("%s: document %s not ready after %d attempts", op, documentID, result.Attempts)
	default:
		return fmt.Sprintf("%s: document %s entered unexpected state %q", op, documentID, result.State)
	}
}

package followup

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"countersign/internal/signing"
	"countersign/pkg/pipeline"
)

// checkRemoteStatus fans out detail lookups for every pending document.
// Documents the remote service is still processing, or whose lookup
// failed, are left out of the detail map and sit out this run; the next
// scheduled run picks them up again.
func (r *Runtime) checkRemoteStatus(ctx context.Context, s *State) {
	s.Details = make(map[string]*signing.Details, len(s.Pending))

	if len(s.Pending) == 0 {
		s.Check = pipeline.Succeeded()
		return
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())

	for _, doc := range s.Pending {
		g.Go(func() error {
			details, err := r.Signing.Details(gctx, doc.DocumentID)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				s.Details[doc.DocumentID] = details
			case errors.Is(err, signing.ErrProcessing):
				r.Logger.InfoContext(gctx, "document still processing",
					"document_id", doc.DocumentID,
				)
			default:
				s.CheckErrors++
				r.Logger.WarnContext(gctx, "status check failed",
					"document_id", doc.DocumentID,
					"error", err,
				)
			}

			return nil
		})
	}

	// Lookups never propagate errors into the group; they record and
	// continue so one unreachable document cannot starve the rest.
	g.Wait()

	if s.CheckErrors == len(s.Pending) {
		s.Check = pipeline.FailedRecoverable("every status check failed")
		return
	}

	s.Check = pipeline.Succeeded()
}

package followup

import (
	"context"
	"fmt"

	"countersign/pkg/pipeline"
)

// loadPending reads the pending ledger. A tracker read failure aborts the
// run: without the ledger there is nothing downstream can act on.
func (r *Runtime) loadPending(ctx context.Context, s *State) {
	pending, err := r.Tracker.Pending(ctx)
	if err != nil {
		s.Load = pipeline.Failed(fmt.Sprintf("tracker read failed: %v", err))
		return
	}

	s.Pending = pending
	s.Load = pipeline.Succeeded()

	r.Logger.InfoContext(ctx, "pending documents loaded", "count", len(pending))
}

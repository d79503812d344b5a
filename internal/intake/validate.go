package intake

import (
	"context"
	"strings"

	"countersign/internal/recipients"
	"countersign/pkg/pipeline"
)

// validate gates the pipeline on the extracted roster. Every violation is
// collected before the verdict so a rejected document reports all of its
// problems at once.
func (r *Runtime) validate(ctx context.Context, s *State) {
	if !s.Extract.Success {
		s.Validate = pipeline.Skipped("no recipients to validate")
		return
	}

	v := recipients.Validate(s.Recipients)
	if !v.Valid() {
		s.Violations = v.Violations
		s.Validate = pipeline.Failed(strings.Join(v.Violations, "; "))

		r.Logger.WarnContext(ctx, "recipient validation failed",
			"document", s.Input.Name,
			"violations", len(v.Violations),
		)
		return
	}

	s.Validate = pipeline.Succeeded()
}

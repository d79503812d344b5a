package intake

import (
	"context"
	"fmt"

	"countersign/internal/prompts"
	"countersign/internal/recipients"
	"countersign/pkg/formatting"
	"countersign/pkg/pipeline"
)

// extract pulls the document's plain text and asks the model for the
// recipient roster, then assigns positional roles.
func (r *Runtime) extract(ctx context.Context, s *State) {
	text, err := r.PDF.Text(ctx, s.Input.Data)
	if err != nil {
		s.Extract = pipeline.Failed(fmt.Sprintf("text extraction failed: %v", err))
		return
	}
	s.Text = text

	content, err := r.Completer.Complete(ctx, prompts.Extraction(text))
	if err != nil {
		s.Extract = pipeline.Failed(fmt.Sprintf("recipient extraction failed: %v", err))
		return
	}

	found, err := formatting.ParseList[recipients.Recipient](content)
	if err != nil {
		s.Extract = pipeline.Failed(fmt.Sprintf("unparseable extraction response: %v", err))
		return
	}
	if len(found) == 0 {
		s.Extract = pipeline.Failed("no recipients found in document")
		return
	}

	s.Recipients = recipients.AssignRoles(found)
	s.Extract = pipeline.Succeeded()

	r.Logger.InfoContext(ctx, "recipients extracted",
		"document", s.Input.Name,
		"count", len(s.Recipients),
	)
}

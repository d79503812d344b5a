package intake

import (
	"context"
	"fmt"

	"countersign/internal/pdf"
	"countersign/internal/prompts"
	"countersign/pkg/formatting"
	"countersign/pkg/pipeline"
)

// addFields resolves where signatures belong, embeds one placeholder per
// recipient at the detected anchor, then appends a blank trailer page
// that the remote signature fields are placed on. A layout the model
// cannot resolve fails the stage outright: the document is not safe to
// upload with unverified placement.
func (r *Runtime) addFields(ctx context.Context, s *State) {
	if !s.Validate.Success {
		s.AddFields = pipeline.Skipped("roster was not validated")
		return
	}

	anchor, err := r.analyzeLayout(ctx, s)
	if err != nil {
		s.AddFields = pipeline.Failed(fmt.Sprintf("layout analysis failed: %v", err))
		return
	}

	annotated, err := r.PDF.EmbedPlaceholders(s.Input.Data, anchor, len(s.Recipients))
	if err != nil {
		s.AddFields = pipeline.Failed(fmt.Sprintf("placeholder embedding failed: %v", err))
		return
	}

	withTrailer, err := r.PDF.AppendTrailerPage(annotated)
	if err != nil {
		s.AddFields = pipeline.Failed(fmt.Sprintf("trailer page failed: %v", err))
		return
	}

	s.Anchor = anchor
	s.Annotated = withTrailer
	s.AddFields = pipeline.Succeeded()
}

// analyzeLayout asks the model for the signature column anchor.
func (r *Runtime) analyzeLayout(ctx context.Context, s *State) (pdf.Anchor, error) {
	content, err := r.Completer.Complete(ctx, prompts.Layout(s.Text, len(s.Recipients)))
	if err != nil {
		return pdf.Anchor{}, err
	}

	anchor, err := formatting.Parse[pdf.Anchor](content)
	if err != nil {
		return pdf.Anchor{}, fmt.Errorf("unparseable layout response: %w", err)
	}

	if anchor.Page < 0 || anchor.ColumnX <= 0 || anchor.FirstRowY <= 0 || anchor.RowHeight <= 0 {
		return pdf.Anchor{}, fmt.Errorf("implausible anchor: page %d, column %.0f, first row %.0f, row height %.0f",
			anchor.Page, anchor.ColumnX, anchor.FirstRowY, anchor.RowHeight)
	}

	return anchor, nil
}

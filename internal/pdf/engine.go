package pdf

import "context"

// US Letter dimensions in PDF points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Placeholder widget dimensions in PDF points.
const (
	WidgetWidth  = 120.0
	WidgetHeight = 20.0
)

// Anchor locates the signature column discovered by layout analysis.
// Page is 0-indexed; rows stack downward from FirstRowY in PDF
// coordinates (origin bottom-left).
type Anchor struct {
	Page      int     `json:"page"`
	ColumnX   float64 `json:"signature_column_x"`
	FirstRowY float64 `json:"first_row_y"`
	RowHeight float64 `json:"row_height"`
}

// RowY returns the vertical offset of the i-th signature row.
func (a Anchor) RowY(i int) float64 {
	return a.FirstRowY - float64(i)*a.RowHeight
}

// Engine provides the document transformations the intake pipeline
// needs. Implementations operate on raw PDF bytes and never mutate
// their input.
type Engine interface {
	// Text extracts the plain text of every page, concatenated in
	// page order.
	Text(ctx context.Context, data []byte) (string, error)

	// PageCount reports the number of pages in the document.
	PageCount(data []byte) (int, error)

	// EmbedPlaceholders stamps count placeholder widgets onto the
	// anchor page, one per signer row.
	EmbedPlaceholders(data []byte, anchor Anchor, count int) ([]byte, error)

	// AppendTrailerPage appends one blank page sized to the
	// document's trailing page dimensions.
	AppendTrailerPage(data []byte) ([]byte, error)
}

package signing

import (
	"fmt"
	"strings"

	"countersign/internal/pdf"
	"countersign/internal/recipients"
)

// Remote document lifecycle states.
const (
	StateUploaded   = "document.uploaded"
	StateProcessing = "document.processing"
	StateDraft      = "document.draft"
	StateSent       = "document.sent"
	StateViewed     = "document.viewed"
	StateCompleted  = "document.completed"
	StateVoided     = "document.voided"
)

// Document is the remote service's view of an uploaded document.
type Document struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Details extends Document with per-recipient completion state.
type Details struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	Recipients []RemoteRecipient `json:"recipients"`
}

// RemoteRecipient is a recipient as tracked by the remote service.
type RemoteRecipient struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	HasCompleted bool   `json:"has_completed"`
}

// Completed reports whether every recipient has completed their action.
func (d *Details) Completed() bool {
	if d.Status == StateCompleted {
		return true
	}
	for _, r := range d.Recipients {
		if !r.HasCompleted {
			return false
		}
	}
	return len(d.Recipients) > 0
}

// Field describes one signature widget placement on the remote document.
type Field struct {
	Name       string        `json:"name"`
	Title      string        `json:"title"`
	Type       string        `json:"type"`
	AssignedTo string        `json:"assigned_to"`
	Settings   FieldSettings `json:"settings"`
	Layout     FieldLayout   `json:"layout"`
}

type FieldSettings struct {
	Required bool `json:"required"`
}

type FieldLayout struct {
	Page     int           `json:"page"`
	Position FieldPosition `json:"position"`
	Style    FieldStyle    `json:"style"`
}

type FieldPosition struct {
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	AnchorPoint string  `json:"anchor_point"`
}

type FieldStyle struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Trailer-page field layout. The column centers a 120pt field on a US
// Letter page; offsets are measured from the top-left corner, so rows
// stack downward as the offset grows.
const (
	trailerColumnX   = (pdf.LetterWidth - pdf.WidgetWidth) / 2
	trailerFirstRowY = 200.0
	trailerRowHeight = 60.0
)

// RecipientIDs maps lowercased recipient emails to the identifiers the
// service generated for them. Entries without both values are dropped.
func RecipientIDs(rs []RemoteRecipient) map[string]string {
	ids := make(map[string]string, len(rs))
	for _, r := range rs {
		if r.Email != "" && r.ID != "" {
			ids[strings.ToLower(r.Email)] = r.ID
		}
	}
	return ids
}

// SignatureFields lays out one required signature field per recipient on
// the given 1-indexed trailer page, assigned through the service's own
// recipient identifiers. Recipients with no identifier produce no field
// and come back in skipped; field names and row positions keep the
// recipient's roster index so a skip never shifts the others.
func SignatureFields(page int, rs []recipients.Recipient, ids map[string]string) (fields []Field, skipped []string) {
	for i, r := range rs {
		id, ok := ids[strings.ToLower(r.Email)]
		if !ok {
			skipped = append(skipped, r.Email)
			continue
		}

		fields = append(fields, Field{
			Name:       fmt.Sprintf("Signature_%d", i+1),
			Title:      "Signature",
			Type:       "signature",
			AssignedTo: id,
			Settings:   FieldSettings{Required: true},
			Layout: FieldLayout{
				Page: page,
				Position: FieldPosition{
					OffsetX:     trailerColumnX,
					OffsetY:     trailerFirstRowY + float64(i)*trailerRowHeight,
					AnchorPoint: "topleft",
				},
				Style: FieldStyle{
					Width:  pdf.WidgetWidth,
					Height: pdf.WidgetHeight,
				},
			},
		})
	}

	return fields, skipped
}

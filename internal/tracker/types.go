package tracker

import (
	"time"

	"countersign/internal/recipients"
)

// Document tracking states.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Document is one tracked signing request.
type Document struct {
	DocumentID       string                 `json:"document_id"`
	DocumentName     string                 `json:"document_name"`
	SentDate         time.Time              `json:"sent_date"`
	Recipients       []recipients.Recipient `json:"recipients"`
	LastFollowupDate time.Time              `json:"last_followup_date"`
	FollowupCount    int                    `json:"followup_count"`
	Status           string                 `json:"status"`
	CompletedDate    *time.Time             `json:"completed_date,omitempty"`
}

// DaysPending returns whole days elapsed since the document was sent.
func (d *Document) DaysPending(now time.Time) int {
	return int(now.Sub(d.SentDate).Hours() / 24)
}

// Stats summarizes the tracked collection.
type Stats struct {
	Total     int
	Pending   int
	Completed int
}

type collection struct {
	Documents map[string]Document `json:"documents"`
}

func emptyCollection() collection {
	return collection{Documents: map[string]Document{}}
}

package followup

import (
	"countersign/internal/signing"
	"countersign/internal/tracker"
	"countersign/pkg/pipeline"
)

// Candidate is one pending document that still has unsigned recipients.
type Candidate struct {
	Document    tracker.Document
	DaysPending int
	Unsigned    []signing.RemoteRecipient
}

// Draft is the model's reminder email response.
type Draft struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

// Reminder is one drafted follow-up email bound to an unsigned recipient.
type Reminder struct {
	DocumentID   string
	DocumentName string
	To           string
	DisplayName  string
	CC           []string
	Subject      string
	BodyHTML     string
	DaysPending  int
}

// State is the shared value one follow-up run flows through. Every stage
// owns exactly one result slot plus the payload fields listed under it.
type State struct {
	// load-pending
	Load    pipeline.StageResult
	Pending []tracker.Document

	// check-remote-status
	Check       pipeline.StageResult
	Details     map[string]*signing.Details
	CheckErrors int

	// filter
	Filter     pipeline.StageResult
	Completed  []string
	Candidates []Candidate

	// draft-reminders
	Draft         pipeline.StageResult
	Reminders     []Reminder
	DraftFailures int

	// notify-chat
	NotifyChat pipeline.StageResult
	ChatPosted int

	// notify-email
	NotifyEmail   pipeline.StageResult
	EmailsSent    int
	EmailFailures int
	Delivered     map[string]bool

	// persist-followup-state
	Persist  pipeline.StageResult
	Recorded int
}

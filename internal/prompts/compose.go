package prompts

import (
	"fmt"
	"strings"
	"time"
)

// Extraction composes the recipient-extraction prompt for a document's
// plain text.
func Extraction(documentText string) string {
	var sb strings.Builder
	sb.WriteString(extractionInstructions)
	sb.WriteString("\n\nDocument text:\n")
	sb.WriteString(documentText)
	return sb.String()
}

// Layout composes the signature-column analysis prompt. The recipient
// count tells the model how many rows the column must accommodate.
func Layout(documentText string, recipientCount int) string {
	var sb strings.Builder
	sb.WriteString(layoutInstructions)
	sb.WriteString("\n\nDocument text:\n")
	sb.WriteString(documentText)
	fmt.Fprintf(&sb, "\n\nNumber of recipients: %d\n", recipientCount)
	return sb.String()
}

// ReminderContext carries the per-recipient facts bound into a follow-up
// draft prompt.
type ReminderContext struct {
	DocumentName  string
	SentAt        time.Time
	DaysPending   int
	RecipientName string
	Role          string
}

// Reminder composes the follow-up drafting prompt for one unsigned
// recipient of one pending document.
func Reminder(rc ReminderContext) string {
	var sb strings.Builder
	sb.WriteString(reminderInstructions)
	sb.WriteString("\n\nDocument details:\n")
	fmt.Fprintf(&sb, "- Document Name: %s\n", rc.DocumentName)
	fmt.Fprintf(&sb, "- Sent Date: %s\n", rc.SentAt.Format("January 2, 2006"))
	fmt.Fprintf(&sb, "- Days Pending: %d\n", rc.DaysPending)
	fmt.Fprintf(&sb, "- Recipient Name: %s\n", rc.RecipientName)
	fmt.Fprintf(&sb, "- Recipient Role: %s\n", rc.Role)
	return sb.String()
}

package followup

import (
	"context"
	"strings"

	"countersign/internal/prompts"
	"countersign/internal/recipients"
	"countersign/internal/signing"
	"countersign/pkg/formatting"
	"countersign/pkg/pipeline"
)

// draftReminders asks the model for one reminder email per unsigned
// recipient, copying every other recipient of the document. A drafting
// failure drops that recipient from this run; the next scheduled sweep
// picks them up again.
func (r *Runtime) draftReminders(ctx context.Context, s *State) {
	for _, c := range s.Candidates {
		for _, unsigned := range c.Unsigned {
			name := displayName(unsigned)

			draft, ok := r.draft(ctx, prompts.ReminderContext{
				DocumentName:  c.Document.DocumentName,
				SentAt:        c.Document.SentDate,
				DaysPending:   c.DaysPending,
				RecipientName: name,
				Role:          unsigned.Role,
			})
			if !ok {
				s.DraftFailures++
				continue
			}

			s.Reminders = append(s.Reminders, Reminder{
				DocumentID:   c.Document.DocumentID,
				DocumentName: c.Document.DocumentName,
				To:           unsigned.Email,
				DisplayName:  name,
				CC:           carbonCopies(c.Document.Recipients, unsigned.Email),
				Subject:      draft.Subject,
				BodyHTML:     draft.BodyHTML,
				DaysPending:  c.DaysPending,
			})
		}
	}

	s.Draft = pipeline.Succeeded()

	r.Logger.InfoContext(ctx, "reminders drafted",
		"count", len(s.Reminders),
		"failures", s.DraftFailures,
	)
}

func (r *Runtime) draft(ctx context.Context, rc prompts.ReminderContext) (Draft, bool) {
	content, err := r.Completer.Complete(ctx, prompts.Reminder(rc))
	if err != nil {
		r.Logger.WarnContext(ctx, "reminder drafting failed",
			"document", rc.DocumentName,
			"recipient", rc.RecipientName,
			"error", err,
		)
		return Draft{}, false
	}

	draft, err := formatting.Parse[Draft](content)
	if err != nil || draft.Subject == "" || draft.BodyHTML == "" {
		r.Logger.WarnContext(ctx, "unparseable reminder draft",
			"document", rc.DocumentName,
			"recipient", rc.RecipientName,
		)
		return Draft{}, false
	}

	return draft, true
}

// carbonCopies returns every tracked recipient of the document except
// the one being reminded.
func carbonCopies(roster []recipients.Recipient, to string) []string {
	var cc []string
	for _, rec := range roster {
		if !strings.EqualFold(rec.Email, to) {
			cc = append(cc, rec.Email)
		}
	}
	return cc
}

func displayName(rr signing.RemoteRecipient) string {
	return recipients.Recipient{
		Email:     rr.Email,
		FirstName: rr.FirstName,
		LastName:  rr.LastName,
	}.DisplayName()
}

package followup

import (
	"context"
	"fmt"

	"countersign/internal/chat"
	"countersign/pkg/pipeline"
)

// notifyChat posts one card per unsigned recipient of every candidate
// document. Each post is a single attempt: the cards are redundant with
// the reminder emails, so failures are recorded and the run moves on.
func (r *Runtime) notifyChat(ctx context.Context, s *State) {
	if r.Chat == nil {
		s.NotifyChat = pipeline.Skipped("chat notifications disabled")
		return
	}

	failures := 0
	for _, c := range s.Candidates {
		for _, rr := range c.Unsigned {
			err := r.Chat.Notify(ctx, &chat.Reminder{
				DocumentName:  c.Document.DocumentName,
				DocumentURL:   r.Signing.DocumentURL(c.Document.DocumentID),
				RecipientName: displayName(rr),
				DaysPending:   c.DaysPending,
			})
			if err != nil {
				failures++
				r.Logger.WarnContext(ctx, "chat reminder failed",
					"document_id", c.Document.DocumentID,
					"recipient", rr.Email,
					"error", err,
				)
				continue
			}

			s.ChatPosted++
		}
	}

	if failures > 0 {
		s.NotifyChat = pipeline.FailedRecoverable(fmt.Sprintf("%d chat reminders failed", failures))
		return
	}

	s.NotifyChat = pipeline.Succeeded()
}

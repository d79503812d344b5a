package followup

import (
	"context"
	"fmt"

	"countersign/internal/mail"
	"countersign/pkg/pipeline"
)

// notifyEmail delivers the drafted reminders. Delivery goes through the
// mail system's retry policy, so a reminder that fails here has already
// exhausted its attempts or failed permanently.
func (r *Runtime) notifyEmail(ctx context.Context, s *State) {
	s.Delivered = make(map[string]bool, len(s.Reminders))

	for _, reminder := range s.Reminders {
		err := r.Mailer.Notify(ctx, &mail.Message{
			To:       []string{reminder.To},
			CC:       reminder.CC,
			Subject:  reminder.Subject,
			HTMLBody: reminder.BodyHTML,
		})
		if err != nil {
			s.EmailFailures++
			continue
		}

		s.EmailsSent++
		s.Delivered[reminder.DocumentID] = true
	}

	if s.EmailFailures > 0 {
		s.NotifyEmail = pipeline.FailedRecoverable(fmt.Sprintf("%d reminder emails failed", s.EmailFailures))
		return
	}

	s.NotifyEmail = pipeline.Succeeded()
}

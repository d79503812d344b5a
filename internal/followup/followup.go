// Package followup runs the reminder pipeline over tracked documents:
// load pending entries, check remote completion, filter out finished
// documents, draft reminder emails, notify chat and email, and stamp the
// follow-up back into the tracker. An empty tracker flows through every
// stage as a no-op; no stage treats "nothing to do" as a failure.
package followup

import (
	"context"
	"log/slog"
	"time"

	"countersign/internal/agents"
	"countersign/internal/chat"
	"countersign/internal/mail"
	"countersign/internal/signing"
	"countersign/internal/tracker"
	"countersign/pkg/pipeline"
)

const defaultConcurrency = 4

// Runtime bundles the systems the follow-up stages call. Chat may be nil
// when chat notifications are disabled.
type Runtime struct {
	Logger      *slog.Logger
	Completer   agents.Completer
	Signing     signing.System
	Tracker     tracker.System
	Mailer      mail.System
	Chat        chat.System
	Concurrency int
	Clock       func() time.Time
}

func (r *Runtime) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *Runtime) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return defaultConcurrency
}

// Stages returns the follow-up pipeline in execution order.
func (r *Runtime) Stages() []pipeline.Stage[State] {
	return []pipeline.Stage[State]{
		{Name: "load-pending", Run: r.loadPending, Branch: func(s *State) pipeline.Decision {
			if !s.Load.Success {
				return pipeline.Abort
			}
			return pipeline.Continue
		}},
		{Name: "check-remote-status", Run: r.checkRemoteStatus},
		{Name: "filter", Run: r.filter},
		{Name: "draft-reminders", Run: r.draftReminders},
		{Name: "notify-chat", Run: r.notifyChat},
		{Name: "notify-email", Run: r.notifyEmail},
		{Name: "persist-followup-state", Run: r.persistFollowupState},
	}
}

// Run executes one follow-up run and returns the final state alongside
// the executor's outcome.
func (r *Runtime) Run(ctx context.Context) (*State, pipeline.Outcome) {
	s := &State{}
	outcome := pipeline.Run(ctx, r.Logger, "followup", r.Stages(), s)
	return s, outcome
}

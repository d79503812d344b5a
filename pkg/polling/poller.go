// Package polling implements bounded waiting for a remote resource to
// reach a required state. One fetch per attempt, a fixed sleep between
// attempts, and a hard attempt budget; every caller that needs to wait on
// remote readiness goes through Await rather than hand-rolling a loop.
package polling

import (
	"context"
	"time"
)

// Default policy shared by every readiness call site.
const (
	DefaultInterval    = time.Second
	DefaultMaxAttempts = 30
)

// Classification buckets a fetched state for the poller. Ready satisfies
// the wait. Working is a recognized in-progress state worth another
// attempt. Anything the caller does not recognize is Unexpected and fails
// the wait immediately: silently spinning on a state the caller doesn't
// understand is worse than fast failure.
type Classification int

// State classifications.
const (
	Ready Classification = iota
	Working
	Unexpected
)

// Outcome is how a wait ended.
type Outcome int

// Wait outcomes.
const (
	OutcomeReady Outcome = iota
	OutcomeTimedOut
	OutcomeFailed
)

// Result reports a completed wait. State carries the last fetched state.
// Err is set only for OutcomeFailed caused by a fetch error; an unexpected
// state fails with Err nil and the offending State populated.
type Result struct {
	Outcome  Outcome
	State    string
	Attempts int
	Err      error
}

// Fetch retrieves the resource's current state. A returned error is a
// transport concern, distinct from state readiness, and is never retried
// here: repeated waits must not mask a genuinely broken connection.
type Fetch func(ctx context.Context) (string, error)

// Classify maps a fetched state onto the poller's recognized buckets.
type Classify func(state string) Classification

// Config bounds a wait. Sleep may be overridden in tests; when nil a
// context-aware timer sleep is used.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the shared readiness policy.
func DefaultConfig() Config {
	return Config{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Await fetches the resource state once per attempt until it classifies as
// Ready, a non-Working state or fetch error ends the wait, or the attempt
// budget runs out. The sleep happens between attempts only; a wait that
// succeeds on fetch N sleeps N-1 times.
func Await(ctx context.Context, cfg Config, fetch Fetch, classify Classify) Result {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		state, err := fetch(ctx)
		if err != nil {
			return Result{Outcome: OutcomeFailed, Attempts: attempt, Err: err}
		}

		switch classify(state) {
		case Ready:
			return Result{Outcome: OutcomeReady, State: state, Attempts: attempt}
		case Working:
			if attempt == cfg.MaxAttempts {
				break
			}
			if err := sleep(ctx, cfg.Interval); err != nil {
				return Result{Outcome: OutcomeFailed, State: state, Attempts: attempt, Err: err}
			}
		default:
			return Result{Outcome: OutcomeFailed, State: state, Attempts: attempt}
		}
	}

	return Result{Outcome: OutcomeTimedOut, Attempts: cfg.MaxAttempts}
}

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

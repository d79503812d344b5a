// Package retry wraps a single side-effecting call with bounded retries
// and exponential backoff. Failures are classified by the caller: only
// transient ones are worth another attempt, while permanent failures
// (credentials, authentication) return immediately since retrying cannot
// help.
package retry

import (
	"context"
	"fmt"
	"time"
)

// DefaultMaxAttempts is the shared delivery budget.
const DefaultMaxAttempts = 3

// Class partitions attempt failures.
type Class int

// Failure classes.
const (
	Transient Class = iota
	Permanent
)

// Classifier assigns a failed attempt's error to a Class.
type Classifier func(err error) Class

// Policy bounds the retry loop. Sleep may be overridden in tests; when nil
// a context-aware timer sleep is used.
type Policy struct {
	MaxAttempts int
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns the shared delivery policy.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts}
}

// Send invokes attempt until it succeeds, fails permanently, or the
// attempt budget is exhausted. Between transient failures it waits
// 2^attemptIndex seconds (1s, 2s, ... for a 3-attempt budget); no wait
// follows the final attempt. The returned error is nil on delivery and
// otherwise wraps the last attempt's error.
func Send(ctx context.Context, p Policy, attempt func(ctx context.Context) error, classify Classifier) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	var last error
	for i := 0; i < p.MaxAttempts; i++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		last = err

		if classify(err) == Permanent {
			return fmt.Errorf("permanent failure: %w", err)
		}

		if i < p.MaxAttempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			if err := sleep(ctx, backoff); err != nil {
				return fmt.Errorf("cancelled during backoff: %w", err)
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, last)
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

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"countersign/pkg/retry"
)

var (
	errAuth = errors.New("authentication failed")
	errSMTP = errors.New("temporary smtp failure")
)

func classify(err error) retry.Class {
	if errors.Is(err, errAuth) {
		return retry.Permanent
	}
	return retry.Transient
}

func countingSleep(slept *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestSendDeliversFirstAttempt(t *testing.T) {
	attempts := 0
	var slept []time.Duration
	p := retry.Policy{MaxAttempts: 3, Sleep: countingSleep(&slept)}

	err := retry.Send(context.Background(), p, func(context.Context) error {
		attempts++
		return nil
	}, classify)

	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times, want 0", len(slept))
	}
}

func TestSendPermanentFailureStopsImmediately(t *testing.T) {
	attempts := 0
	var slept []time.Duration
	p := retry.Policy{MaxAttempts: 3, Sleep: countingSleep(&slept)}

	err := retry.Send(context.Background(), p, func(context.Context) error {
		attempts++
		return errAuth
	}, classify)

	if err == nil {
		t.Fatal("Send error = nil, want permanent failure")
	}
	if !errors.Is(err, errAuth) {
		t.Errorf("error = %v, want wrapped auth error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1 for permanent failure", attempts)
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times, want 0", len(slept))
	}
}

func TestSendTransientExhaustsBudgetWithBackoff(t *testing.T) {
	attempts := 0
	var slept []time.Duration
	p := retry.Policy{MaxAttempts: 3, Sleep: countingSleep(&slept)}

	err := retry.Send(context.Background(), p, func(context.Context) error {
		attempts++
		return errSMTP
	}, classify)

	if err == nil {
		t.Fatal("Send error = nil, want failure after exhausted budget")
	}
	if !errors.Is(err, errSMTP) {
		t.Errorf("error = %v, want last transient error preserved", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept = %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestSendRecoversAfterTransientFailure(t *testing.T) {
	attempts := 0
	var slept []time.Duration
	p := retry.Policy{MaxAttempts: 3, Sleep: countingSleep(&slept)}

	err := retry.Send(context.Background(), p, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errSMTP
		}
		return nil
	}, classify)

	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestSendCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retry.Policy{
		MaxAttempts: 3,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := retry.Send(ctx, p, func(context.Context) error { return errSMTP }, classify)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

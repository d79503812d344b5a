package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"countersign/internal/mail"
	"countersign/pkg/retry"
)

func testConfig() *mail.Config {
	cfg := &mail.Config{
		Host:     "smtp.example.com",
		Username: "automation",
		Password: "secret",
		From:     "automation@example.com",
	}
	if err := cfg.Finalize(nil); err != nil {
		panic(err)
	}
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func instantPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: retry.DefaultMaxAttempts,
		Sleep: func(ctx context.Context, d time.Duration) error {
			return nil
		},
	}
}

func testMessage() *mail.Message {
	return &mail.Message{
		To:       []string{"alice@example.com"},
		CC:       []string{"bob@example.com"},
		Subject:  "Reminder: Q3 Contract",
		HTMLBody: "<p>Please sign.</p>",
	}
}

func TestSendEncoding(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string

	sys := mail.New(testConfig(), testLogger(), mail.WithTransport(
		func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr = addr
			gotFrom = from
			gotTo = to
			gotMsg = string(msg)
			return nil
		},
	))

	if err := sys.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q, expected smtp.example.com:587", gotAddr)
	}
	if gotFrom != "automation@example.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 2 {
		t.Errorf("envelope should include cc addresses, got %v", gotTo)
	}

	for _, want := range []string{
		"From: Countersign Automation <automation@example.com>",
		"To: alice@example.com",
		"Cc: bob@example.com",
		"Subject: Reminder: Q3 Contract",
		"Content-Type: text/html",
		"<p>Please sign.</p>",
	} {
		if !strings.Contains(gotMsg, want) {
			t.Errorf("encoded message missing %q", want)
		}
	}
}

func TestNotifyRetriesTransient(t *testing.T) {
	attempts := 0

	sys := mail.New(testConfig(), testLogger(),
		mail.WithPolicy(instantPolicy()),
		mail.WithTransport(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			attempts++
			if attempts < 3 {
				return errors.New("connection reset by peer")
			}
			return nil
		}),
	)

	if err := sys.Notify(context.Background(), testMessage()); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, expected 3", attempts)
	}
}

func TestNotifyAuthFailureIsPermanent(t *testing.T) {
	attempts := 0
	authErr := &textproto.Error{Code: 535, Msg: "authentication credentials invalid"}

	sys := mail.New(testConfig(), testLogger(),
		mail.WithPolicy(instantPolicy()),
		mail.WithTransport(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			attempts++
			return authErr
		}),
	)

	err := sys.Notify(context.Background(), testMessage())
	if err == nil {
		t.Fatal("expected permanent failure")
	}
	if !errors.Is(err, authErr) {
		t.Errorf("error should wrap the auth failure: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, expected 1 for a permanent failure", attempts)
	}
}

func TestNotifyExhaustsBudget(t *testing.T) {
	attempts := 0

	sys := mail.New(testConfig(), testLogger(),
		mail.WithPolicy(instantPolicy()),
		mail.WithTransport(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			attempts++
			return errors.New("relay busy")
		}),
	)

	err := sys.Notify(context.Background(), testMessage())
	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if attempts != retry.DefaultMaxAttempts {
		t.Errorf("attempts = %d, expected %d", attempts, retry.DefaultMaxAttempts)
	}
}

func TestSendValidation(t *testing.T) {
	sys := mail.New(testConfig(), testLogger(), mail.WithTransport(
		func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			t.Fatal("no delivery should be attempted for an invalid message")
			return nil
		},
	))

	if err := sys.Send(context.Background(), &mail.Message{HTMLBody: "x"}); !errors.Is(err, mail.ErrNoRecipients) {
		t.Errorf("error = %v, expected %v", err, mail.ErrNoRecipients)
	}
	if err := sys.Send(context.Background(), &mail.Message{To: []string{"a@b.c"}}); !errors.Is(err, mail.ErrEmptyBody) {
		t.Errorf("error = %v, expected %v", err, mail.ErrEmptyBody)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected retry.Class
	}{
		{"auth rejected", &textproto.Error{Code: 535, Msg: "bad credentials"}, retry.Permanent},
		{"auth mechanism weak", &textproto.Error{Code: 534, Msg: "mechanism too weak"}, retry.Permanent},
		{"connection reset", errors.New("connection reset"), retry.Transient},
		{"greylisted", &textproto.Error{Code: 451, Msg: "try again later"}, retry.Transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mail.Classify(tt.err); got != tt.expected {
				t.Errorf("Classify = %v, expected %v", got, tt.expected)
			}
		})
	}
}

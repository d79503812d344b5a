package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"countersign/internal/chat"
)

func testSystem(t *testing.T, handler http.HandlerFunc) chat.System {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &chat.Config{WebhookURL: server.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("config finalize failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return chat.New(cfg, logger)
}

func testReminder() *chat.Reminder {
	return &chat.Reminder{
		DocumentName:  "Q3 Contract",
		DocumentURL:   "https://app.example.com/documents/doc-1",
		RecipientName: "Bob Lee",
		DaysPending:   5,
	}
}

func TestNotifyCardShape(t *testing.T) {
	var got map[string]any

	sys := testSystem(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, expected application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode card payload failed: %v", err)
		}
	})

	if err := sys.Notify(context.Background(), testReminder()); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if got["type"] != "message" {
		t.Errorf("envelope type = %v, expected message", got["type"])
	}

	attachments, ok := got["attachments"].([]any)
	if !ok || len(attachments) != 1 {
		t.Fatalf("expected one attachment, got %v", got["attachments"])
	}

	attachment := attachments[0].(map[string]any)
	if attachment["contentType"] != "application/vnd.microsoft.card.adaptive" {
		t.Errorf("attachment content type = %v", attachment["contentType"])
	}

	content := attachment["content"].(map[string]any)
	if content["type"] != "AdaptiveCard" {
		t.Errorf("card type = %v, expected AdaptiveCard", content["type"])
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(content); err != nil {
		t.Fatalf("re-encode card content failed: %v", err)
	}
	raw := buf.Bytes()
	for _, want := range []string{
		"Hi **Bob Lee**",
		`\"Q3 Contract\"`,
		"5 day(s)",
		"Action.OpenUrl",
		"Review & Sign Document",
		"https://app.example.com/documents/doc-1",
	} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("card missing %q", want)
		}
	}
}

func TestNotifyAcceptsAccepted(t *testing.T) {
	sys := testSystem(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	if err := sys.Notify(context.Background(), testReminder()); err != nil {
		t.Fatalf("notify failed on 202: %v", err)
	}
}

func TestNotifyFailure(t *testing.T) {
	sys := testSystem(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, "throttled")
	})

	if err := sys.Notify(context.Background(), testReminder()); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

// Package chat posts reminder cards to a Teams incoming webhook. Webhook
// delivery is a single attempt: chat reminders are redundant with email,
// so a missed card costs nothing that the next scheduled run won't repost.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// System manages chat notifications.
type System interface {
	// Notify posts one reminder card to the webhook.
	Notify(ctx context.Context, r *Reminder) error
}

type webhook struct {
	http   *http.Client
	url    string
	logger *slog.Logger
}

// New creates a chat system from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &webhook{
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		url:    cfg.WebhookURL,
		logger: logger.With("system", "chat"),
	}
}

func (w *webhook) Notify(ctx context.Context, r *Reminder) error {
	payload, err := json.Marshal(buildMessage(r))
	if err != nil {
		return fmt.Errorf("encode chat card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("post chat card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post chat card: unexpected response %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	w.logger.InfoContext(ctx, "chat reminder posted",
		"document", r.DocumentName,
		"recipient", r.RecipientName,
		"days_pending", r.DaysPending,
	)

	return nil
}

// Package mail delivers reminder emails over an SMTP relay. Delivery
// retries transient relay failures with backoff; authentication failures
// are permanent and abort immediately.
package mail

import (
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"net/textproto"

	"countersign/pkg/retry"
)

// System manages outbound email delivery.
type System interface {
	// Send performs a single delivery attempt.
	Send(ctx context.Context, msg *Message) error
	// Notify delivers with the retry policy applied.
	Notify(ctx context.Context, msg *Message) error
}

// Transport submits an encoded message to the relay. Overridable in tests.
type Transport func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Option configures a mail system.
type Option func(*sender)

// WithTransport replaces the SMTP submission function.
func WithTransport(t Transport) Option {
	return func(s *sender) {
		s.transport = t
	}
}

// WithPolicy replaces the delivery retry policy.
func WithPolicy(p retry.Policy) Option {
	return func(s *sender) {
		s.policy = p
	}
}

type sender struct {
	cfg       *Config
	transport Transport
	policy    retry.Policy
	logger    *slog.Logger
}

// New creates a mail system from the given configuration.
func New(cfg *Config, logger *slog.Logger, opts ...Option) System {
	s := &sender{
		cfg:       cfg,
		transport: smtp.SendMail,
		policy:    retry.DefaultPolicy(),
		logger:    logger.With("system", "mail"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *sender) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if msg.HTMLBody == "" {
		return ErrEmptyBody
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	return s.transport(s.cfg.Addr(), auth, s.cfg.From, msg.Envelope(), msg.encode(s.cfg.From, s.cfg.FromName))
}

func (s *sender) Notify(ctx context.Context, msg *Message) error {
	err := retry.Send(ctx, s.policy, func(ctx context.Context) error {
		return s.Send(ctx, msg)
	}, Classify)

	if err != nil {
		s.logger.ErrorContext(ctx, "email delivery failed",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
		return err
	}

	s.logger.InfoContext(ctx, "email delivered",
		"to", msg.To,
		"cc", msg.CC,
		"subject", msg.Subject,
	)

	return nil
}

// Classify treats SMTP authentication and policy rejections as permanent;
// everything else (connection resets, greylisting, timeouts) is transient.
func Classify(err error) retry.Class {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		switch proto.Code {
		case 530, 534, 535:
			return retry.Permanent
		}
	}

	if errors.Is(err, ErrNoRecipients) || errors.Is(err, ErrEmptyBody) {
		return retry.Permanent
	}

	return retry.Transient
}

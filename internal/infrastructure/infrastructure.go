// Package infrastructure provides core initialization for application
// startup. It assembles the shared systems (logging, model access, the
// signing client, the tracker, notification channels) that both
// pipelines require, and builds their runtimes.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"countersign/internal/agents"
	"countersign/internal/chat"
	"countersign/internal/config"
	"countersign/internal/followup"
	"countersign/internal/intake"
	"countersign/internal/mail"
	"countersign/internal/pdf"
	"countersign/internal/signing"
	"countersign/internal/tracker"
	"countersign/pkg/lifecycle"
	"countersign/pkg/polling"
	"countersign/pkg/storage"
)

// Infrastructure holds the shared systems behind both pipelines. Mailer,
// Chat, and Archive are nil when their configuration is absent.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Completer agents.Completer
	PDF       pdf.Engine
	Signing   signing.System
	Tracker   tracker.System
	Mailer    mail.System
	Chat      chat.System
	Archive   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Completer: agents.New(cfg.Agent),
		PDF:       pdf.NewEngine(),
		Signing:   signing.New(&cfg.Signing, logger),
		Tracker:   tracker.New(&cfg.Tracker, logger),
	}

	if cfg.MailEnabled() {
		infra.Mailer = mail.New(&cfg.Mail, logger)
	}
	if cfg.ChatEnabled() {
		infra.Chat = chat.New(&cfg.Chat, logger)
	}
	if cfg.ArchiveEnabled() {
		archive, err := storage.New(&cfg.Archive, logger)
		if err != nil {
			return nil, fmt.Errorf("archive init failed: %w", err)
		}
		infra.Archive = archive
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Archive != nil {
		if err := i.Archive.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("archive start failed: %w", err)
		}
	}
	return nil
}

// Intake builds the submission pipeline runtime.
func (i *Infrastructure) Intake() *intake.Runtime {
	return &intake.Runtime{
		Logger:    i.Logger.With("module", "intake"),
		Completer: i.Completer,
		PDF:       i.PDF,
		Signing:   i.Signing,
		Tracker:   i.Tracker,
		Archive:   i.Archive,
		Poll:      polling.DefaultConfig(),
	}
}

// Followup builds the reminder pipeline runtime. It requires mail to be
// configured; chat remains optional.
func (i *Infrastructure) Followup() (*followup.Runtime, error) {
	if i.Mailer == nil {
		return nil, fmt.Errorf("follow-up requires mail configuration")
	}

	return &followup.Runtime{
		Logger:    i.Logger.With("module", "followup"),
		Completer: i.Completer,
		Signing:   i.Signing,
		Tracker:   i.Tracker,
		Mailer:    i.Mailer,
		Chat:      i.Chat,
	}, nil
}

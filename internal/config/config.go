// Package config loads the root configuration: a base config.toml, an
// optional per-environment overlay, and COUNTERSIGN_* environment
// variable overrides, finalized in that order.
package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"countersign/internal/chat"
	"countersign/internal/mail"
	"countersign/internal/scheduler"
	"countersign/internal/signing"
	"countersign/internal/tracker"
	"countersign/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCountersignEnv             = "COUNTERSIGN_ENV"
	EnvCountersignShutdownTimeout = "COUNTERSIGN_SHUTDOWN_TIMEOUT"
	EnvCountersignVersion         = "COUNTERSIGN_VERSION"
)

var signingEnv = &signing.Env{
	BaseURL: "COUNTERSIGN_SIGNING_BASE_URL",
	AppURL:  "COUNTERSIGN_SIGNING_APP_URL",
	APIKey:  "COUNTERSIGN_SIGNING_API_KEY",
}

var trackerEnv = &tracker.Env{
	Path: "COUNTERSIGN_TRACKER_PATH",
}

var mailEnv = &mail.Env{
	Host:     "COUNTERSIGN_MAIL_HOST",
	Username: "COUNTERSIGN_MAIL_USERNAME",
	Password: "COUNTERSIGN_MAIL_PASSWORD",
	From:     "COUNTERSIGN_MAIL_FROM",
}

var chatEnv = &chat.Env{
	WebhookURL: "COUNTERSIGN_CHAT_WEBHOOK_URL",
}

var archiveEnv = &storage.Env{
	ContainerName:    "COUNTERSIGN_ARCHIVE_CONTAINER_NAME",
	ConnectionString: "COUNTERSIGN_ARCHIVE_CONNECTION_STRING",
}

var schedulerEnv = &scheduler.Env{
	Time: "COUNTERSIGN_SCHEDULER_TIME",
}

// Config is the root configuration for countersign.
type Config struct {
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Signing         signing.Config       `toml:"signing"`
	Tracker         tracker.Config       `toml:"tracker"`
	Mail            mail.Config          `toml:"mail"`
	Chat            chat.Config          `toml:"chat"`
	Archive         storage.Config       `toml:"archive"`
	Scheduler       scheduler.Config     `toml:"scheduler"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the COUNTERSIGN_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCountersignEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile behaves like Load with an explicit base config path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		loaded, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(loaded)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Agent.Merge(&overlay.Agent)
	c.Signing.Merge(&overlay.Signing)
	c.Tracker.Merge(&overlay.Tracker)
	c.Mail.Merge(&overlay.Mail)
	c.Chat.Merge(&overlay.Chat)
	c.Archive.Merge(&overlay.Archive)
	c.Scheduler.Merge(&overlay.Scheduler)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Signing.Finalize(signingEnv); err != nil {
		return fmt.Errorf("signing: %w", err)
	}
	if err := c.Tracker.Finalize(trackerEnv); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}
	if c.MailEnabled() {
		if err := c.Mail.Finalize(mailEnv); err != nil {
			return fmt.Errorf("mail: %w", err)
		}
	}
	if c.ChatEnabled() {
		if err := c.Chat.Finalize(chatEnv); err != nil {
			return fmt.Errorf("chat: %w", err)
		}
	}
	if c.ArchiveEnabled() {
		if err := c.Archive.Finalize(archiveEnv); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
	}
	if err := c.Scheduler.Finalize(schedulerEnv); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

// MailEnabled reports whether email delivery is configured, in toml or
// through the environment.
func (c *Config) MailEnabled() bool {
	return c.Mail.Enabled() || os.Getenv(mailEnv.Host) != ""
}

// ChatEnabled reports whether chat notifications are configured, in toml
// or through the environment.
func (c *Config) ChatEnabled() bool {
	return c.Chat.Enabled() || os.Getenv(chatEnv.WebhookURL) != ""
}

// ArchiveEnabled reports whether document archiving is configured, in
// toml or through the environment.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Enabled() || os.Getenv(archiveEnv.ConnectionString) != ""
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCountersignShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCountersignVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCountersignEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

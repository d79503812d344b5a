package chat

import (
	"fmt"
	"os"
)

const defaultTimeoutSeconds = 15

// Config holds chat webhook parameters. An empty webhook URL disables
// chat notifications entirely; Finalize is only called when chat is
// enabled.
type Config struct {
	WebhookURL     string `toml:"webhook_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	WebhookURL string
}

// Enabled reports whether a webhook is configured.
func (c *Config) Enabled() bool {
	return c.WebhookURL != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.WebhookURL != "" {
		c.WebhookURL = overlay.WebhookURL
	}
	if overlay.TimeoutSeconds != 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) loadDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.WebhookURL != "" {
		if v := os.Getenv(env.WebhookURL); v != "" {
			c.WebhookURL = v
		}
	}
}

func (c *Config) validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("webhook_url required")
	}
	return nil
}

package mail

import (
	"fmt"
	"os"
)

const (
	defaultPort     = 587
	defaultFromName = "Countersign Automation"
)

// Config holds SMTP relay parameters. An empty host disables email
// delivery; Finalize is only called when mail is enabled.
type Config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Host     string
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay is configured.
func (c *Config) Enabled() bool {
	return c.Host != ""
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
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if overlay.FromName != "" {
		c.FromName = overlay.FromName
	}
}

func (c *Config) loadDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.FromName == "" {
		c.FromName = defaultFromName
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Host != "" {
		if v := os.Getenv(env.Host); v != "" {
			c.Host = v
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.From != "" {
		if v := os.Getenv(env.From); v != "" {
			c.From = v
		}
	}
}

func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host required")
	}
	if c.From == "" {
		return fmt.Errorf("from required")
	}
	return nil
}

// Addr returns the host:port dial address for the relay.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

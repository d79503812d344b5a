package signing

import (
	"fmt"
	"os"
	"strings"
)

const defaultTimeoutSeconds = 30

// Config holds signing service connection parameters.
type Config struct {
	BaseURL        string `toml:"base_url"`
	AppURL         string `toml:"app_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL string
	AppURL  string
	APIKey  string
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
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.AppURL != "" {
		c.AppURL = overlay.AppURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.TimeoutSeconds != 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) loadDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.AppURL == "" {
		c.AppURL = c.BaseURL
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.AppURL != "" {
		if v := os.Getenv(env.AppURL); v != "" {
			c.AppURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.AppURL = strings.TrimRight(c.AppURL, "/")
	return nil
}

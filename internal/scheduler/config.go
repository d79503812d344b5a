package scheduler

import (
	"fmt"
	"os"
	"time"
)

const defaultTime = "09:00"

// Config holds the daily trigger parameters.
type Config struct {
	Time string `toml:"time"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Time string
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
	if overlay.Time != "" {
		c.Time = overlay.Time
	}
}

func (c *Config) loadDefaults() {
	if c.Time == "" {
		c.Time = defaultTime
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Time != "" {
		if v := os.Getenv(env.Time); v != "" {
			c.Time = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.Parse("15:04", c.Time); err != nil {
		return fmt.Errorf("time must be HH:MM (24-hour): %w", err)
	}
	return nil
}

// clock returns the configured hour and minute.
func (c *Config) clock() (hour, minute int) {
	t, _ := time.Parse("15:04", c.Time)
	return t.Hour(), t.Minute()
}

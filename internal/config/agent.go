package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "COUNTERSIGN_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "COUNTERSIGN_AGENT_BASE_URL"
	EnvAgentToken        = "COUNTERSIGN_AGENT_TOKEN"
	EnvAgentDeployment   = "COUNTERSIGN_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "COUNTERSIGN_AGENT_API_VERSION"
	EnvAgentAuthType     = "COUNTERSIGN_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "COUNTERSIGN_AGENT_MODEL_NAME"
)

// FinalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: defaults, environment variable overrides, and validation.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Transport == nil {
		c.Transport = gaconfig.DefaultTransportConfig()
	}
	if c.Transport.Provider == nil {
		c.Transport.Provider = gaconfig.DefaultProviderConfig()
	}

	p := c.Transport.Provider
	if p.Model == nil {
		p.Model = gaconfig.DefaultModelConfig()
	}
	if p.Options == nil {
		p.Options = make(map[string]any)
	}

	if v := os.Getenv(EnvAgentProviderName); v != "" {
		p.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		p.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		p.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			p.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Transport == nil || c.Transport.Provider == nil {
		return fmt.Errorf("transport provider required")
	}
	if c.Transport.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Transport.Provider.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}

// Package agents adapts the go-agents chat capability to the single
// contract the pipelines need: one prompt in, free text out. Stage code
// depends on the Completer interface so tests can substitute canned
// responses without a provider.
package agents

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Completer produces a free-text completion for a prompt. Responses may be
// wrapped in markdown code fences; callers parse with pkg/formatting.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type chatCompleter struct {
	cfg gaconfig.AgentConfig
}

// New returns a Completer backed by a go-agents chat agent. The
// configuration is held per instance, not process-wide, so concurrent
// pipeline runs cannot interfere with one another's provider settings.
func New(cfg gaconfig.AgentConfig) Completer {
	return &chatCompleter{cfg: cfg}
}

func (c *chatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Content(), nil
}

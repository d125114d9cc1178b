package classifier

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentCompleter implements Completer over a go-agents chat agent. Each
// call constructs its own agent so concurrent classifications never share
// conversation state.
type AgentCompleter struct {
	cfg gaconfig.AgentConfig
}

// NewAgentCompleter creates an AgentCompleter from the agent configuration.
func NewAgentCompleter(cfg gaconfig.AgentConfig) *AgentCompleter {
	return &AgentCompleter{cfg: cfg}
}

func (c *AgentCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	return resp.Content(), nil
}

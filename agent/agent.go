package agent

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Agent selects which backend, model and system prompt a turn is routed to.
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt"`
	APIKey       string `json:"api_key,omitempty"`
}

// Opts for agent selection.
type Opts struct {
	Agent string
}

// GetOpts on the given command.
func GetOpts(cmd *cobra.Command) *Opts {
	opts := &Opts{}
	cmd.Flags().StringVarP(&opts.Agent, "agent", "a", "", "specify an agent by id or name")
	return opts
}

// DefaultAgents returns the built-in agent set.
func DefaultAgents() []*Agent {
	return []*Agent{
		{
			ID:           "gpt-4o-mini",
			Name:         "GPT-4o Mini (Balanced)",
			Provider:     "OpenAI",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You are a balanced AI. Explain clearly, step-by-step when needed.",
		},
		{
			ID:           "claude-3-5-sonnet",
			Name:         "Claude 3.5 Sonnet (Logic)",
			Provider:     "Anthropic",
			Model:        "claude-3-5-sonnet-20241022",
			SystemPrompt: "You are a logical tutor. Explain your reasoning process clearly and carefully. Always provide detailed, step-by-step explanations for your conclusions to help the user learn.",
		},
		{
			ID:           "deepseek-chat",
			Name:         "DeepSeek V2 (Coding)",
			Provider:     "Open Source",
			Model:        "deepseek-chat",
			SystemPrompt: "You are a coding-focused assistant. You must provide clean, correct, and idiomatic code. Always explain the code and the choices you made.",
		},
		{
			ID:           "llama-3.1-70b",
			Name:         "Llama 3.1 70B (General)",
			Provider:     "Open Source",
			Model:        "meta-llama/meta-llama-3.1-70b-instruct-turbo",
			SystemPrompt: "You are an open-source general AI. Be neutral, informative, and draw on a wide range of public knowledge.",
		},
	}
}

// Registry holds the built-in agents plus any user-defined ones.
type Registry struct {
	agents []*Agent
	path   string
}

// LoadRegistry builds a registry from the defaults and the user agents file.
// A missing user agents file is not an error.
func LoadRegistry(path string) (*Registry, error) {
	registry := &Registry{agents: DefaultAgents(), path: path}
	if path == "" {
		return registry, nil
	}
	bytes, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return registry, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading agents file")
	}
	var userAgents []*Agent
	if err := json.Unmarshal(bytes, &userAgents); err != nil {
		return nil, errors.Wrap(err, "unmarshaling user agents")
	}
	registry.agents = append(registry.agents, userAgents...)
	return registry, nil
}

// Agents returns all registered agents.
func (r *Registry) Agents() []*Agent {
	return r.agents
}

// Resolve picks exactly one agent by id or name, falling back to the given
// default id when the selector is empty.
func (r *Registry) Resolve(selector, defaultID string) (*Agent, error) {
	if selector == "" {
		selector = defaultID
	}
	for _, agent := range r.agents {
		if agent.ID == selector || agent.Name == selector {
			return agent, nil
		}
	}
	return nil, errors.Errorf("unknown agent (%s)", selector)
}

// SaveUserAgents persists user-defined agents to the registry's file.
func (r *Registry) SaveUserAgents(agents []*Agent) error {
	bytes, err := json.MarshalIndent(agents, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling agents")
	}
	if err := os.WriteFile(r.path, bytes, 0644); err != nil {
		return errors.Wrap(err, "writing agents file")
	}
	return nil
}

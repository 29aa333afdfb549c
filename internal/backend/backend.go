// Package backend maps model identifiers to the external CLI tools that
// serve them and builds the per-invocation command lines.
package backend

import (
	"fmt"
	"os"
	"strings"

	"github.com/quorum-cli/quorum/internal/config"
	"github.com/quorum-cli/quorum/internal/consensus"
)

// Name identifies a supported agent backend.
type Name string

const (
	NameClaude Name = "claude"
	NameCodex  Name = "codex"
	NameGemini Name = "gemini"
)

// Select maps a model identifier to the backend that serves it, by prefix.
// An empty or unrecognized identifier falls back to claude. Pure function:
// the loop only ever sees the resulting tag, never the selection rule.
func Select(model string) Name {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case m == "":
		return NameClaude
	case hasAnyPrefix(m, "claude", "opus", "sonnet", "haiku"):
		return NameClaude
	case hasAnyPrefix(m, "gpt", "codex", "o1", "o3", "o4"):
		return NameCodex
	case hasAnyPrefix(m, "gemini"):
		return NameGemini
	default:
		return NameClaude
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// CredentialSource supplies API credentials by environment variable name.
// Injected into invoker construction so nothing in the loop reads the
// environment directly.
type CredentialSource interface {
	Credential(name string) string
}

// EnvCredentials reads credentials from the process environment.
type EnvCredentials struct{}

func (EnvCredentials) Credential(name string) string {
	return os.Getenv(name)
}

// Backend provides backend-specific behavior for one-shot agent runs.
type Backend interface {
	Name() Name
	// Command is the CLI binary to execute.
	Command() string
	// Args builds the argument list for one invocation.
	Args(req consensus.Request) []string
	// Env returns extra environment variables for one invocation, such as
	// credentials and endpoint overrides.
	Env(req consensus.Request, creds CredentialSource) []string
}

// Registry holds the configured backends and resolves them by model.
type Registry struct {
	backends map[Name]Backend
}

// NewRegistry builds a registry from configuration. A backend with no
// command override uses its standard binary name.
func NewRegistry(cfg config.BackendsConfig) *Registry {
	return &Registry{
		backends: map[Name]Backend{
			NameClaude: newClaudeBackend(cfg.Claude),
			NameCodex:  newCodexBackend(cfg.Codex),
			NameGemini: newGeminiBackend(cfg.Gemini),
		},
	}
}

// ForModel returns the backend serving the given model identifier.
func (r *Registry) ForModel(model string) Backend {
	return r.backends[Select(model)]
}

// ClaudeBackend runs turns through the claude CLI.
type ClaudeBackend struct {
	command string
}

func newClaudeBackend(cfg config.BackendConfig) *ClaudeBackend {
	command := cfg.Command
	if command == "" {
		command = "claude"
	}
	return &ClaudeBackend{command: command}
}

func (b *ClaudeBackend) Name() Name { return NameClaude }

func (b *ClaudeBackend) Command() string { return b.command }

func (b *ClaudeBackend) Args(req consensus.Request) []string {
	args := []string{"--print", "--dangerously-skip-permissions"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.SystemPrompt != "" {
		args = append(args, "--append-system-prompt", req.SystemPrompt)
	}
	return append(args, req.Prompt)
}

func (b *ClaudeBackend) Env(req consensus.Request, creds CredentialSource) []string {
	var env []string
	if key := creds.Credential("ANTHROPIC_API_KEY"); key != "" {
		env = append(env, "ANTHROPIC_API_KEY="+key)
	}
	if req.Endpoint != "" {
		env = append(env, "ANTHROPIC_BASE_URL="+req.Endpoint)
	}
	return env
}

// CodexBackend runs turns through the codex CLI.
type CodexBackend struct {
	command string
}

func newCodexBackend(cfg config.BackendConfig) *CodexBackend {
	command := cfg.Command
	if command == "" {
		command = "codex"
	}
	return &CodexBackend{command: command}
}

func (b *CodexBackend) Name() Name { return NameCodex }

func (b *CodexBackend) Command() string { return b.command }

func (b *CodexBackend) Args(req consensus.Request) []string {
	args := []string{"exec", "--full-auto"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	// No separate system prompt channel, so it rides ahead of the prompt.
	return append(args, combinePrompts(req.SystemPrompt, req.Prompt))
}

func (b *CodexBackend) Env(req consensus.Request, creds CredentialSource) []string {
	var env []string
	if key := creds.Credential("OPENAI_API_KEY"); key != "" {
		env = append(env, "OPENAI_API_KEY="+key)
	}
	if req.Endpoint != "" {
		env = append(env, "OPENAI_BASE_URL="+req.Endpoint)
	}
	return env
}

// GeminiBackend runs turns through the gemini CLI.
type GeminiBackend struct {
	command string
}

func newGeminiBackend(cfg config.BackendConfig) *GeminiBackend {
	command := cfg.Command
	if command == "" {
		command = "gemini"
	}
	return &GeminiBackend{command: command}
}

func (b *GeminiBackend) Name() Name { return NameGemini }

func (b *GeminiBackend) Command() string { return b.command }

func (b *GeminiBackend) Args(req consensus.Request) []string {
	args := []string{"--yolo"}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	return append(args, "--prompt", combinePrompts(req.SystemPrompt, req.Prompt))
}

func (b *GeminiBackend) Env(req consensus.Request, creds CredentialSource) []string {
	var env []string
	if key := creds.Credential("GEMINI_API_KEY"); key != "" {
		env = append(env, "GEMINI_API_KEY="+key)
	}
	if req.Endpoint != "" {
		env = append(env, "GOOGLE_GEMINI_BASE_URL="+req.Endpoint)
	}
	return env
}

// combinePrompts folds a system prompt into the user prompt for backends
// without a dedicated system prompt flag.
func combinePrompts(systemPrompt, prompt string) string {
	if systemPrompt == "" {
		return prompt
	}
	return fmt.Sprintf("%s\n\n---\n\n%s", systemPrompt, prompt)
}

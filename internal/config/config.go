package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Quorum configuration
type Config struct {
	Agents   []AgentConfig  `mapstructure:"agents" yaml:"agents"`
	Rounds   RoundsConfig   `mapstructure:"rounds" yaml:"rounds"`
	Task     TaskConfig     `mapstructure:"task" yaml:"task"`
	Invoke   InvokeConfig   `mapstructure:"invoke" yaml:"invoke"`
	Backends BackendsConfig `mapstructure:"backends" yaml:"backends"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	WorkDir  string         `mapstructure:"workdir" yaml:"workdir"`
}

// AgentConfig describes one member of the roster
type AgentConfig struct {
	// Name is the agent's identifier, shown to the other agents and used
	// in transcripts. Must be unique within the roster.
	Name string `mapstructure:"name" yaml:"name"`
	// Glyph is a short display symbol used in transcripts and summaries
	Glyph string `mapstructure:"glyph" yaml:"glyph,omitempty"`
	// Persona is the role description injected into the agent's system prompt.
	// The other agents never see it.
	Persona string `mapstructure:"persona" yaml:"persona"`
	// Model selects the underlying CLI via prefix matching
	// (e.g. "claude-sonnet-4", "gpt-5", "gemini-2.5-pro")
	Model string `mapstructure:"model" yaml:"model,omitempty"`
	// Endpoint overrides the backend's API base URL for this agent
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
}

// RoundsConfig controls how long deliberation may run
type RoundsConfig struct {
	// Max is the maximum number of rounds before giving up (default: 5)
	Max int `mapstructure:"max" yaml:"max"`
}

// TaskConfig controls task input handling
type TaskConfig struct {
	// MinLength is the minimum task length in characters after trimming (default: 8)
	MinLength int `mapstructure:"min_length" yaml:"min_length"`
}

// InvokeConfig controls agent CLI invocation
type InvokeConfig struct {
	// TimeoutMinutes is the per-invocation timeout in minutes (default: 5)
	TimeoutMinutes int `mapstructure:"timeout_minutes" yaml:"timeout_minutes"`
	// PreviewLength is the maximum length of a prior response shown in
	// history windows before truncation (default: 500)
	PreviewLength int `mapstructure:"preview_length" yaml:"preview_length"`
}

// BackendsConfig holds per-backend CLI settings
type BackendsConfig struct {
	Claude BackendConfig `mapstructure:"claude" yaml:"claude,omitempty"`
	Codex  BackendConfig `mapstructure:"codex" yaml:"codex,omitempty"`
	Gemini BackendConfig `mapstructure:"gemini" yaml:"gemini,omitempty"`
}

// BackendConfig holds one backend's CLI settings
type BackendConfig struct {
	// Command overrides the CLI binary name (default: the backend's standard binary)
	Command string `mapstructure:"command" yaml:"command,omitempty"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
}

// Timeout returns the per-invocation timeout as a time.Duration
func (c *InvokeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

// ResolveWorkDir returns the shared working directory for a run.
// An empty WorkDir resolves to the current directory; a relative path is
// resolved against baseDir; ~ expands to the user's home directory.
func (c *Config) ResolveWorkDir(baseDir string) string {
	if c.WorkDir == "" {
		return baseDir
	}

	path := c.WorkDir
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Agents: []AgentConfig{
			{
				Name:    "architect",
				Glyph:   "A",
				Persona: "You focus on overall design: interfaces, data flow, and how the pieces fit together. Push back on solutions that trade long-term clarity for short-term convenience.",
				Model:   "claude-sonnet-4",
			},
			{
				Name:    "implementer",
				Glyph:   "I",
				Persona: "You focus on concrete, working code. Prefer the simplest implementation that satisfies the requirements, and call out proposals that are harder to build than they sound.",
				Model:   "gpt-5",
			},
			{
				Name:    "reviewer",
				Glyph:   "R",
				Persona: "You focus on correctness and edge cases. Look for bugs, missing error handling, and untested assumptions in what the others propose.",
				Model:   "gemini-2.5-pro",
			},
		},
		Rounds: RoundsConfig{
			Max: 5,
		},
		Task: TaskConfig{
			MinLength: 8,
		},
		Invoke: InvokeConfig{
			TimeoutMinutes: 5,
			PreviewLength:  500,
		},
		Backends: BackendsConfig{
			Claude: BackendConfig{Command: ""},
			Codex:  BackendConfig{Command: ""},
			Gemini: BackendConfig{Command: ""},
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		WorkDir: "",
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Rounds defaults
	viper.SetDefault("rounds.max", defaults.Rounds.Max)

	// Task defaults
	viper.SetDefault("task.min_length", defaults.Task.MinLength)

	// Invoke defaults
	viper.SetDefault("invoke.timeout_minutes", defaults.Invoke.TimeoutMinutes)
	viper.SetDefault("invoke.preview_length", defaults.Invoke.PreviewLength)

	// Backend defaults
	viper.SetDefault("backends.claude.command", defaults.Backends.Claude.Command)
	viper.SetDefault("backends.codex.command", defaults.Backends.Codex.Command)
	viper.SetDefault("backends.gemini.command", defaults.Backends.Gemini.Command)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// Paths defaults
	viper.SetDefault("workdir", defaults.WorkDir)
}

// Load reads the configuration from viper into a Config struct and validates it.
// Agents are not defaulted here: a roster must come from the config file, so a
// missing file surfaces as an empty-roster validation error rather than a
// silently invented roster.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quorum")
	}
	// Fall back to ~/.config/quorum
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quorum"
	}
	return filepath.Join(home, ".config", "quorum")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
